// Package server exposes the facilitator over HTTP: payment terms with a 402
// status, settlement submission, wallet login, and operational endpoints.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solpay/x402-facilitator/auth"
	"github.com/solpay/x402-facilitator/facilitator"
	"github.com/solpay/x402-facilitator/logger"
	"github.com/solpay/x402-facilitator/types"
)

type Server struct {
	engine *gin.Engine
	fac    *facilitator.Facilitator
	auth   *auth.Service
	log    logger.Logger
}

func New(fac *facilitator.Facilitator, authSvc *auth.Service, log logger.Logger) *Server {
	if log == nil {
		log = logger.Noop{}
	}
	s := &Server{
		engine: gin.New(),
		fac:    fac,
		auth:   authSvc,
		log:    log,
	}
	s.engine.Use(gin.Recovery())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/pay", s.handleRequestTerms)
	s.engine.POST("/pay", s.handleSettle)
	s.engine.POST("/auth/verify-wallet", s.handleVerifyWallet)
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Handler exposes the router for http.Server wiring and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// handleRequestTerms answers a resource-access request with the payment terms
// the client must satisfy, tagged 402 rather than an ordinary success.
func (s *Server) handleRequestTerms(c *gin.Context) {
	required, err := s.fac.BuildRequirement(
		c.Query("recipient"),
		c.Query("amount"),
		c.Query("note"),
	)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusPaymentRequired, required)
}

// handleSettle accepts a signed transaction plus the echoed requirement and
// runs the settlement pipeline. On success the receipt is emitted twice: as
// the response body and base64-encoded in the X-PAYMENT-RESPONSE header.
func (s *Server) handleSettle(c *gin.Context) {
	var body types.SettleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.writeError(c, facilitator.NewPaymentError(
			facilitator.ErrCodeInvalidRequest, "serializedTransaction is required", err))
		return
	}

	hdr, err := types.DecodePaymentHeaderFromBase64(c.GetHeader(types.PaymentHeader))
	if err != nil {
		s.writeError(c, facilitator.NewPaymentError(
			facilitator.ErrCodeInvalidRequest, err.Error(), err))
		return
	}

	receipt, err := s.fac.Settle(c.Request.Context(), body.SerializedTransaction, &hdr.PaymentRequirement)
	if err != nil {
		s.writeError(c, err)
		return
	}

	encoded, err := types.EncodeReceiptToBase64(receipt)
	if err != nil {
		s.writeError(c, facilitator.NewPaymentError(
			facilitator.ErrCodeUnexpectedStatus, "failed to encode settlement receipt", err))
		return
	}
	c.Header(types.PaymentResponseHeader, encoded)
	c.JSON(http.StatusOK, receipt)
}

type verifyWalletRequest struct {
	PublicKey string `json:"publicKey" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

func (s *Server) handleVerifyWallet(c *gin.Context) {
	var body verifyWalletRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "publicKey and signature are required"})
		return
	}
	token, err := s.auth.VerifyWallet(body.PublicKey, body.Signature)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// writeError emits the classified failure as {"error": ...} with its HTTP
// class. No settlement header is ever attached to a failure.
func (s *Server) writeError(c *gin.Context, err error) {
	pe := facilitator.AsPaymentError(err)
	s.log.Debug("request failed", map[string]any{
		"path": c.FullPath(),
		"code": pe.Code,
	})
	c.JSON(facilitator.HTTPStatus(pe), gin.H{"error": pe.Message})
}
