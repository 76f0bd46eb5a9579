package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JSON escaping turns one byte into at most six ("\u00XX")
const (
	jsonEscapeFactor = 6
	jsonEnvelopeSize = 1024
)

// PredictRequest is the body of a prediction request
type PredictRequest struct {
	SMS *string `json:"sms" binding:"required" example:"this is my request"`
}

// PredictResponse is the result of a prediction
type PredictResponse struct {
	Result     string `json:"result" example:"Spam"`
	Classifier string `json:"classifier" example:"decision tree"`
	SMS        string `json:"sms" example:"this is my request"`
}

// ErrorResponse describes a failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// predict godoc
// @Summary Predict whether an SMS is Spam.
// @Description Classifies a message with the trained model. The result is Spam or Ham.
// @Tags Prediction
// @Accept json
// @Produce json
// @Param input_data body PredictRequest true "message to be classified."
// @Success 200 {object} PredictResponse
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /predict [post]
func (s *Server) predict(c *gin.Context) {
	if s.maxMessageSize > 0 {
		limit := int64(s.maxMessageSize)*jsonEscapeFactor + jsonEnvelopeSize
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
				Error: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "request body must be a JSON object with an \"sms\" string"})
		return
	}

	text, err := s.textProcessor.ProcessText(*req.SMS, s.maxMessageSize)
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error: fmt.Sprintf("sms exceeds %d bytes", s.maxMessageSize),
		})
		return
	}

	prediction, err := s.service.Classify(c.Request.Context(), text)
	if err != nil {
		s.logger.Error("Failed to classify message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "prediction failed"})
		return
	}

	c.JSON(http.StatusOK, PredictResponse{
		Result:     prediction.Label.Title(),
		Classifier: prediction.Classifier,
		SMS:        *req.SMS,
	})
}

// health godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"classifier": s.service.ClassifierName(),
	})
}
