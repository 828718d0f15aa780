// Package engine_controller exposes the admin and bidding HTTP surface
// over engine_usecase.EngineUseCase: season/team/player/auction setup,
// auction lifecycle control, and bid placement.
package engine_controller

import (
	"net/http"

	"github.com/auctioncore/auction-engine/configuration/rest_err"
	"github.com/auctioncore/auction-engine/internal/infra/api/web/validation"
	"github.com/auctioncore/auction-engine/internal/usecase/engine_usecase"
	"github.com/gin-gonic/gin"
)

type EngineController struct {
	useCase *engine_usecase.EngineUseCase
}

func NewEngineController(useCase *engine_usecase.EngineUseCase) *EngineController {
	return &EngineController{useCase: useCase}
}

func (ec *EngineController) CreateSeason(c *gin.Context) {
	var in engine_usecase.CreateSeasonInputDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		restErr := validation.ValidateErr(err)
		c.JSON(restErr.Code, restErr)
		return
	}
	out, err := ec.useCase.CreateSeason(c.Request.Context(), in)
	if err != nil {
		restErr := rest_err.ConvertErrors(err)
		c.JSON(restErr.Code, restErr)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (ec *EngineController) CreateTeam(c *gin.Context) {
	var in engine_usecase.CreateTeamInputDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		restErr := validation.ValidateErr(err)
		c.JSON(restErr.Code, restErr)
		return
	}
	out, err := ec.useCase.CreateTeam(c.Request.Context(), in)
	if err != nil {
		restErr := rest_err.ConvertErrors(err)
		c.JSON(restErr.Code, restErr)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (ec *EngineController) CreatePlayer(c *gin.Context) {
	var in engine_usecase.CreatePlayerInputDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		restErr := validation.ValidateErr(err)
		c.JSON(restErr.Code, restErr)
		return
	}
	out, err := ec.useCase.CreatePlayer(c.Request.Context(), in)
	if err != nil {
		restErr := rest_err.ConvertErrors(err)
		c.JSON(restErr.Code, restErr)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (ec *EngineController) CreateAuction(c *gin.Context) {
	var in engine_usecase.CreateAuctionInputDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		restErr := validation.ValidateErr(err)
		c.JSON(restErr.Code, restErr)
		return
	}
	out, err := ec.useCase.CreateAuction(c.Request.Context(), in)
	if err != nil {
		restErr := rest_err.ConvertErrors(err)
		c.JSON(restErr.Code, restErr)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (ec *EngineController) StartAuction(c *gin.Context) {
	if err := ec.useCase.StartAuction(c.Request.Context(), c.Param("auctionId")); err != nil {
		restErr := rest_err.ConvertErrors(err)
		c.JSON(restErr.Code, restErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ec *EngineController) PauseAuction(c *gin.Context) {
	if err := ec.useCase.PauseAuction(c.Request.Context(), c.Param("auctionId"), c.Query("user_id")); err != nil {
		restErr := rest_err.ConvertErrors(err)
		c.JSON(restErr.Code, restErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ec *EngineController) ResumeAuction(c *gin.Context) {
	if err := ec.useCase.ResumeAuction(c.Request.Context(), c.Param("auctionId"), c.Query("user_id")); err != nil {
		restErr := rest_err.ConvertErrors(err)
		c.JSON(restErr.Code, restErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ec *EngineController) EndAuction(c *gin.Context) {
	if err := ec.useCase.EndAuction(c.Request.Context(), c.Param("auctionId")); err != nil {
		restErr := rest_err.ConvertErrors(err)
		c.JSON(restErr.Code, restErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ec *EngineController) StartNextLot(c *gin.Context) {
	if err := ec.useCase.StartNextLot(c.Request.Context(), c.Param("auctionId")); err != nil {
		restErr := rest_err.ConvertErrors(err)
		c.JSON(restErr.Code, restErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ec *EngineController) ForceSell(c *gin.Context) {
	if err := ec.useCase.ForceSell(c.Request.Context(), c.Param("auctionId"), c.Param("lotId"), c.Query("user_id")); err != nil {
		restErr := rest_err.ConvertErrors(err)
		c.JSON(restErr.Code, restErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ec *EngineController) MarkUnsold(c *gin.Context) {
	if err := ec.useCase.MarkUnsold(c.Request.Context(), c.Param("auctionId"), c.Param("lotId"), c.Query("user_id")); err != nil {
		restErr := rest_err.ConvertErrors(err)
		c.JSON(restErr.Code, restErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ec *EngineController) PlaceBid(c *gin.Context) {
	var in engine_usecase.PlaceBidInputDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		restErr := validation.ValidateErr(err)
		c.JSON(restErr.Code, restErr)
		return
	}
	if err := ec.useCase.PlaceBid(c.Request.Context(), c.Param("auctionId"), c.Param("lotId"), in); err != nil {
		restErr := rest_err.ConvertErrors(err)
		c.JSON(restErr.Code, restErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ec *EngineController) GetSnapshot(c *gin.Context) {
	out, err := ec.useCase.GetSnapshot(c.Request.Context(), c.Param("auctionId"))
	if err != nil {
		restErr := rest_err.ConvertErrors(err)
		c.JSON(restErr.Code, restErr)
		return
	}
	c.JSON(http.StatusOK, out)
}
