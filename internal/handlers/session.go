package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"swanchat/internal/chat"
	"swanchat/internal/models"

	"github.com/labstack/echo/v4"
)

// CreateSessionHandler starts a new chat session
// @Summary Create a chat session
// @Description Start a session for a visitor; pass a stable visitor_id to restore the saved language preference
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body models.CreateSessionRequest false "Session options"
// @Success 201 {object} models.SessionResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/sessions [post]
func CreateSessionHandler(sessions *chat.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.CreateSessionRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: fmt.Sprintf("Invalid request body: %v", err),
			})
		}

		session := sessions.Create(req.VisitorID)
		return c.JSON(http.StatusCreated, sessionSnapshot(session))
	}
}

// GetSessionHandler returns a session snapshot
// @Summary Get a session snapshot
// @Description Return the transcript, flags, products and enquiry form of a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.SessionResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/sessions/{id} [get]
func GetSessionHandler(sessions *chat.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, ok := sessions.Get(c.Param("id"))
		if !ok {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "session not found"})
		}
		return c.JSON(http.StatusOK, sessionSnapshot(session))
	}
}

// DeleteSessionHandler tears a session down
// @Summary End a session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Router /api/sessions/{id} [delete]
func DeleteSessionHandler(sessions *chat.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		sessions.Remove(c.Param("id"))
		return c.NoContent(http.StatusNoContent)
	}
}

// SubmitMessageHandler runs one submission cycle
// @Summary Submit a chat message
// @Description Echo the message and schedule the bot response; rejects empty input and overlapping submissions
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body models.SubmitMessageRequest true "Message"
// @Success 202 {object} models.SessionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/sessions/{id}/messages [post]
func SubmitMessageHandler(sessions *chat.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, ok := sessions.Get(c.Param("id"))
		if !ok {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "session not found"})
		}

		var req models.SubmitMessageRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: fmt.Sprintf("Invalid request body: %v", err),
			})
		}

		if err := session.Submit(req.Text); err != nil {
			return sessionError(c, err)
		}
		return c.JSON(http.StatusAccepted, sessionSnapshot(session))
	}
}

// PanelHandler opens, closes or resizes the widget panel
// @Summary Toggle the widget panel
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body models.PanelRequest true "Panel state"
// @Success 200 {object} models.SessionResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/sessions/{id}/panel [post]
func PanelHandler(sessions *chat.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, ok := sessions.Get(c.Param("id"))
		if !ok {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "session not found"})
		}

		var req models.PanelRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: fmt.Sprintf("Invalid request body: %v", err),
			})
		}

		if req.Open != nil {
			if err := session.SetOpen(*req.Open); err != nil {
				return sessionError(c, err)
			}
		}
		if req.Large != nil {
			if err := session.SetLarge(*req.Large); err != nil {
				return sessionError(c, err)
			}
		}
		return c.JSON(http.StatusOK, sessionSnapshot(session))
	}
}

// SetLanguageHandler switches the session language
// @Summary Switch the session language
// @Description Change the active language from the header dropdown and persist the preference
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body models.LanguageRequest true "Language"
// @Success 200 {object} models.SessionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/sessions/{id}/language [put]
func SetLanguageHandler(sessions *chat.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, ok := sessions.Get(c.Param("id"))
		if !ok {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "session not found"})
		}

		var req models.LanguageRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: fmt.Sprintf("Invalid request body: %v", err),
			})
		}

		if err := session.SetLanguage(req.Language); err != nil {
			return sessionError(c, err)
		}
		return c.JSON(http.StatusOK, sessionSnapshot(session))
	}
}

// UpdateEnquiryHandler edits one enquiry form field
// @Summary Edit an enquiry form field
// @Description Update a field of the open enquiry form; clears that field's validation error
// @Tags enquiry
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body models.EnquiryFieldRequest true "Field edit"
// @Success 200 {object} models.SessionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/sessions/{id}/enquiry [put]
func UpdateEnquiryHandler(sessions *chat.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, ok := sessions.Get(c.Param("id"))
		if !ok {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "session not found"})
		}

		var req models.EnquiryFieldRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: fmt.Sprintf("Invalid request body: %v", err),
			})
		}

		if err := session.UpdateEnquiryField(req.Field, req.Value); err != nil {
			return sessionError(c, err)
		}
		return c.JSON(http.StatusOK, sessionSnapshot(session))
	}
}

// SubmitEnquiryHandler submits the enquiry form
// @Summary Submit the enquiry form
// @Description Validate the draft; on success the lead is forwarded and a confirmation message is scheduled
// @Tags enquiry
// @Produce json
// @Param id path string true "Session ID"
// @Success 202 {object} models.SessionResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.EnquiryErrorsResponse
// @Router /api/sessions/{id}/enquiry [post]
func SubmitEnquiryHandler(sessions *chat.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, ok := sessions.Get(c.Param("id"))
		if !ok {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "session not found"})
		}

		fieldErrors, err := session.SubmitEnquiry()
		if err != nil {
			return sessionError(c, err)
		}
		if len(fieldErrors) > 0 {
			return c.JSON(http.StatusUnprocessableEntity, models.EnquiryErrorsResponse{Errors: fieldErrors})
		}
		return c.JSON(http.StatusAccepted, sessionSnapshot(session))
	}
}

// CancelEnquiryHandler discards the enquiry form
// @Summary Cancel the enquiry form
// @Tags enquiry
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.SessionResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/sessions/{id}/enquiry [delete]
func CancelEnquiryHandler(sessions *chat.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, ok := sessions.Get(c.Param("id"))
		if !ok {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "session not found"})
		}

		if err := session.CancelEnquiry(); err != nil {
			return sessionError(c, err)
		}
		return c.JSON(http.StatusOK, sessionSnapshot(session))
	}
}

// sessionSnapshot assembles the full session payload.
func sessionSnapshot(session *chat.Session) models.SessionResponse {
	resp := models.SessionResponse{
		SessionID: session.ID,
		VisitorID: session.VisitorID,
		State:     session.State(),
		Messages:  session.Messages(),
		Products:  session.Products(),
	}
	if resp.State.ShowEnquiryForm {
		fields, fieldErrors := session.Form()
		resp.Form = &models.FormSnapshot{Fields: fields, Errors: fieldErrors}
	}
	return resp
}

// sessionError maps session errors onto HTTP statuses.
func sessionError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, chat.ErrEmptyInput),
		errors.Is(err, chat.ErrUnknownField),
		errors.Is(err, chat.ErrUnsupportedLanguage):
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, chat.ErrBusy):
		return c.JSON(http.StatusConflict, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, chat.ErrNoEnquiryForm):
		return c.JSON(http.StatusConflict, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, chat.ErrSessionDisposed):
		return c.JSON(http.StatusGone, models.ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
	}
}
