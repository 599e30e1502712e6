package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"adstudio/internal/adcopy"
	"adstudio/internal/fault"
	"adstudio/internal/frames"
	"adstudio/internal/imagen"
	"adstudio/internal/refiner"
	"adstudio/internal/transcribe"
)

const (
	msgBadRequest = "Requisição inválida"
	msgNoAudio    = "Nenhum arquivo de áudio enviado"

	fallbackAd         = "Erro desconhecido ao gerar anúncio"
	fallbackImage      = "Erro ao gerar imagem"
	fallbackFrames     = "Erro ao gerar frames do vídeo"
	fallbackRefine     = "Erro ao processar a conversa. Tente novamente."
	fallbackTranscribe = "Erro ao transcrever áudio"
)

type AdCopyService interface {
	Generate(ctx context.Context, brief adcopy.Brief) (*adcopy.Content, error)
}

type FramesService interface {
	Generate(ctx context.Context, req frames.Request) (map[string]string, error)
}

type RefineService interface {
	Refine(ctx context.Context, messages []refiner.Message) (*refiner.Decision, error)
}

type TranscribeService interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (*transcribe.Result, error)
}

// Server is the stateless HTTP surface. Every handler is a thin
// adapter: bind the request, call one service, map the error.
type Server struct {
	ads        AdCopyService
	images     imagen.Generator
	frames     FramesService
	refiner    RefineService
	transcribe TranscribeService
}

func New(ads AdCopyService, images imagen.Generator, fr FramesService, ref RefineService, tr TranscribeService) *Server {
	return &Server{
		ads:        ads,
		images:     images,
		frames:     fr,
		refiner:    ref,
		transcribe: tr,
	}
}

func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	fn := router.Group("/functions")
	fn.POST("/generate-ad", s.handleGenerateAd)
	fn.POST("/generate-image", s.handleGenerateImage)
	fn.POST("/generate-video-frames", s.handleGenerateFrames)
	fn.POST("/image-chat", s.handleImageChat)
	fn.POST("/transcribe", s.handleTranscribe)

	return router
}

// corsMiddleware mirrors the headers browser clients expect and
// short-circuits preflight requests.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

func (s *Server) handleGenerateAd(c *gin.Context) {
	var brief adcopy.Brief
	if err := c.ShouldBindJSON(&brief); err != nil {
		writeError(c, fault.Wrap(fault.KindValidation, msgBadRequest, err), fallbackAd)
		return
	}

	content, err := s.ads.Generate(c.Request.Context(), brief)
	if err != nil {
		writeError(c, err, fallbackAd)
		return
	}
	c.JSON(http.StatusOK, content)
}

func (s *Server) handleGenerateImage(c *gin.Context) {
	var req imagen.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fault.Wrap(fault.KindValidation, msgBadRequest, err), fallbackImage)
		return
	}

	result, err := s.images.Generate(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, fallbackImage)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGenerateFrames(c *gin.Context) {
	var req frames.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fault.Wrap(fault.KindValidation, msgBadRequest, err), fallbackFrames)
		return
	}

	result, err := s.frames.Generate(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, fallbackFrames)
		return
	}
	c.JSON(http.StatusOK, gin.H{"frames": result})
}

type imageChatRequest struct {
	Messages []refiner.Message `json:"messages"`
}

func (s *Server) handleImageChat(c *gin.Context) {
	var req imageChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fault.Wrap(fault.KindValidation, msgBadRequest, err), fallbackRefine)
		return
	}

	decision, err := s.refiner.Refine(c.Request.Context(), req.Messages)
	if err != nil {
		writeError(c, err, fallbackRefine)
		return
	}
	c.JSON(http.StatusOK, decision)
}

func (s *Server) handleTranscribe(c *gin.Context) {
	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		writeError(c, fault.Wrap(fault.KindValidation, msgNoAudio, err), fallbackTranscribe)
		return
	}
	defer func() { _ = file.Close() }()

	result, err := s.transcribe.Transcribe(c.Request.Context(), file, header.Filename)
	if err != nil {
		writeError(c, err, fallbackTranscribe)
		return
	}
	c.JSON(http.StatusOK, result)
}

// writeError maps a fault to its HTTP status and sanitized message.
// Raw upstream detail stays in the logs.
func writeError(c *gin.Context, err error, fallback string) {
	status := fault.HTTPStatus(err)
	slog.Error("request failed", "path", c.Request.URL.Path, "status", status, "error", err)
	c.JSON(status, gin.H{"error": fault.UserMessage(err, fallback)})
}
