package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"fitclub/internal/dto"
	"fitclub/internal/service"
	"fitclub/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// OccurrenceHandler 场次 HTTP 处理器：按日浏览、余位、名单
type OccurrenceHandler struct {
	occurrenceSvc  service.OccurrenceService
	reservationSvc service.ReservationService
	rosterSvc      service.RosterService
}

// NewOccurrenceHandler 创建 OccurrenceHandler
func NewOccurrenceHandler(
	occurrenceSvc service.OccurrenceService,
	reservationSvc service.ReservationService,
	rosterSvc service.RosterService,
) *OccurrenceHandler {
	return &OccurrenceHandler{
		occurrenceSvc:  occurrenceSvc,
		reservationSvc: reservationSvc,
		rosterSvc:      rosterSvc,
	}
}

// Browse 某日的全部场次
// GET /api/v1/occurrences?date=&location_id=&category_id=&q=
func (h *OccurrenceHandler) Browse(c *gin.Context) {
	var req dto.OccurrenceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, codeValidation, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.occurrenceSvc.Browse(c.Request.Context(), userID, &req)
	if err != nil {
		handleReservationError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// GetAvailability 场次余位
// GET /api/v1/occurrences/:schedule_id/:date/availability
func (h *OccurrenceHandler) GetAvailability(c *gin.Context) {
	var uri dto.OccurrenceURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, codeValidation, "参数校验失败")
		return
	}

	avail, err := h.occurrenceSvc.GetAvailability(c.Request.Context(), uri.ScheduleID, uri.Date)
	if err != nil {
		handleReservationError(c, err)
		return
	}

	response.OK(c, avail)
}

// GetRoster 场次名单（工作人员）
// GET /api/v1/occurrences/:schedule_id/:date/roster
func (h *OccurrenceHandler) GetRoster(c *gin.Context) {
	var uri dto.OccurrenceURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, codeValidation, "参数校验失败")
		return
	}

	roster, err := h.reservationSvc.ListForOccurrence(c.Request.Context(), uri.ScheduleID, uri.Date)
	if err != nil {
		handleReservationError(c, err)
		return
	}

	response.OK(c, roster)
}

// ExportRoster 导出场次名单 xlsx
// GET /api/v1/occurrences/:schedule_id/:date/roster/export
func (h *OccurrenceHandler) ExportRoster(c *gin.Context) {
	var uri dto.OccurrenceURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, codeValidation, "参数校验失败")
		return
	}

	buf, filename, err := h.rosterSvc.Export(c.Request.Context(), uri.ScheduleID, uri.Date)
	if err != nil {
		handleReservationError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
