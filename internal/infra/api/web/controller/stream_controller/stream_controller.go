// Package stream_controller exposes the Subscription Hub over
// Server-Sent Events: GET /auctions/:auctionId/stream replays persisted
// history since ?from=N and then streams live events with no gap and no
// duplicate, dropping the connection if the client falls too
// far behind.
package stream_controller

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/auctioncore/auction-engine/configuration/logger"
	"github.com/auctioncore/auction-engine/configuration/rest_err"
	"github.com/auctioncore/auction-engine/internal/entity/event_entity"
	"github.com/auctioncore/auction-engine/internal/usecase/engine_usecase"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StreamController struct {
	useCase *engine_usecase.EngineUseCase
}

func NewStreamController(useCase *engine_usecase.EngineUseCase) *StreamController {
	return &StreamController{useCase: useCase}
}

func (sc *StreamController) Stream(c *gin.Context) {
	auctionId := c.Param("auctionId")
	fromSequence, _ := strconv.ParseInt(c.DefaultQuery("from", "0"), 10, 64)

	sub, history, err := sc.useCase.Subscribe(c.Request.Context(), auctionId, fromSequence)
	if err != nil {
		restErr := rest_err.ConvertErrors(err)
		c.JSON(restErr.Code, restErr)
		return
	}
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	for _, event := range history {
		writeEvent(c, event)
	}
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub.Events():
			if !ok {
				if sub.Dropped() {
					logger.Warn("subscriber dropped for slow consumption", zap.String("auction_id", auctionId))
				}
				return
			}
			writeEvent(c, event)
			c.Writer.Flush()
		}
	}
}

func writeEvent(c *gin.Context, event event_entity.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("error trying to marshal event for stream", err)
		return
	}
	fmt.Fprintf(c.Writer, "id: %d\nevent: %s\ndata: %s\n\n", event.Sequence, event.Type, payload)
}
