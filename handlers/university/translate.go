package university

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarhub/api/utils/response"
)

// TranslateRequest asks for a listing text translated into a target language
type TranslateRequest struct {
	Text       string `json:"text" validate:"required"`
	TargetLang string `json:"target_lang" validate:"required,oneof=en uz ru"`
}

// Translate machine translates listing text so universities can fill in the
// localized title variants
func (h *UniversityHandler) Translate(c *fiber.Ctx) error {
	if h.translateClient == nil || !h.translateClient.IsConfigured() {
		return response.ServiceUnavailable(c, "Translation is not configured")
	}

	var req TranslateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	if strings.TrimSpace(req.Text) == "" {
		return response.BadRequest(c, "Text is required")
	}

	translated, err := h.translateClient.Translate(c.Context(), req.Text, req.TargetLang)
	if err != nil {
		return response.InternalServerError(c, "Translation failed")
	}

	return response.Success(c, fiber.Map{
		"translated":  translated,
		"target_lang": req.TargetLang,
	})
}
