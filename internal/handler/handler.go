package handler

import (
	"strconv"
	"time"

	"tindahan/pkg/apperror"
	"tindahan/pkg/period"
	"tindahan/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeError maps a service failure onto the response envelope. Classified
// errors carry their kind so the UI can phrase field-level feedback.
func writeError(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	if kind := apperror.KindOf(err); kind != 0 {
		c.JSON(status, response.ErrorWithKind(status, kind.String(), err.Error()))
		return
	}
	c.JSON(status, response.Error(status, err.Error()))
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// parseRange resolves the reporting window from query parameters. Either an
// explicit start/end pair (YYYY-MM-DD, end exclusive after normalization) or
// a named period plus reference date.
func parseRange(c *gin.Context) (time.Time, time.Time, error) {
	if p := c.Query("period"); p != "" {
		kind, err := period.ParseKind(p)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.Validation("report", "period", "expected daily, weekly or monthly")
		}
		ref := time.Now()
		if d := c.Query("date"); d != "" {
			ref, err = time.ParseInLocation("2006-01-02", d, time.Local)
			if err != nil {
				return time.Time{}, time.Time{}, apperror.Validation("report", "date", "expected YYYY-MM-DD")
			}
		}
		r, err := period.Of(kind, ref)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return r.Start, r.End, nil
	}

	start, err := time.ParseInLocation("2006-01-02", c.DefaultQuery("start", time.Now().Format("2006-01-02")), time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.Validation("report", "start", "expected YYYY-MM-DD")
	}
	end := start.AddDate(0, 0, 1)
	if e := c.Query("end"); e != "" {
		end, err = time.ParseInLocation("2006-01-02", e, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.Validation("report", "end", "expected YYYY-MM-DD")
		}
		// inclusive end date from the UI becomes an exclusive bound
		end = end.AddDate(0, 0, 1)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, apperror.Validation("report", "end", "end date precedes start date")
	}
	return start, end, nil
}
