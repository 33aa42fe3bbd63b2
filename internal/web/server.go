package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"sbp2geo/internal/config"
	"sbp2geo/internal/convert"
	"sbp2geo/internal/geojson"
	"sbp2geo/internal/sbp"
	"sbp2geo/internal/track"
)

// ErrorResponse is the body of a failed conversion.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type server struct {
	cfg    config.ServerConfig
	chunk  int
	status *Status
}

// Handler builds the HTTP API. Request bodies are decoded as they arrive,
// through the same push path the CLI uses in stream mode.
func Handler(cfg config.Config, status *Status, logs *LogBuffer) http.Handler {
	if status == nil {
		status = NewStatus()
	}
	s := &server{cfg: cfg.Server, chunk: cfg.Input.ChunkSize, status: status}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/api/status", func(c *gin.Context) {
		c.IndentedJSON(http.StatusOK, status.Snapshot(time.Now().UTC()))
	})
	if logs != nil {
		r.GET("/api/logs", logs.handleLogs)
	}

	api := r.Group("/api/v1")
	{
		api.POST("/convert", s.handleConvert)
		api.POST("/summary", s.handleSummary)
	}
	return r
}

func (s *server) handleConvert(c *gin.Context) {
	res, ok := s.convertBody(c)
	if !ok {
		return
	}
	indent := ""
	if pretty, _ := strconv.ParseBool(c.Query("pretty")); pretty {
		indent = "  "
	}
	c.Header("Content-Type", "application/geo+json")
	c.Status(http.StatusOK)
	if err := geojson.Encode(c.Writer, res.Collection, indent); err != nil {
		log.Printf("convert write failed: %v", err)
	}
}

type TrackSummary struct {
	Name        string     `json:"name"`
	Points      int        `json:"points"`
	Start       string     `json:"start"`
	End         string     `json:"end"`
	DurationSec float64    `json:"duration_sec"`
	LengthKm    float64    `json:"length_km"`
	ClimbM      float64    `json:"climb_m"`
	BBox        [4]float64 `json:"bbox"`
}

type SummaryResponse struct {
	Tracks   int            `json:"tracks"`
	Points   int            `json:"points"`
	Dropped  int            `json:"dropped"`
	LengthKm float64        `json:"length_km"`
	BBox     [4]float64     `json:"bbox"`
	Items    []TrackSummary `json:"items"`
}

func (s *server) handleSummary(c *gin.Context) {
	res, ok := s.convertBody(c)
	if !ok {
		return
	}
	tot, per := track.SummarizeAll(res.Collection)
	resp := SummaryResponse{
		Tracks:   tot.Tracks,
		Points:   res.Points,
		Dropped:  res.Dropped,
		LengthKm: tot.LengthM / 1000,
		BBox:     track.BBox(tot.Bounds),
		Items:    make([]TrackSummary, 0, len(per)),
	}
	for _, st := range per {
		resp.Items = append(resp.Items, TrackSummary{
			Name:        st.Name,
			Points:      st.Points,
			Start:       sbp.FormatTime(st.Start),
			End:         sbp.FormatTime(st.End),
			DurationSec: st.Duration.Seconds(),
			LengthKm:    st.LengthM / 1000,
			ClimbM:      st.ClimbM,
			BBox:        track.BBox(st.Bounds),
		})
	}
	c.IndentedJSON(http.StatusOK, resp)
}

// convertBody runs the request body through the decoder. On failure it writes
// the error response and returns ok=false.
func (s *server) convertBody(c *gin.Context) (convert.Result, bool) {
	chunk := s.chunk
	if q := c.Query("chunk"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 1 || v > config.MaxChunkSize {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "chunk must be an integer in [1," + strconv.Itoa(config.MaxChunkSize) + "]"})
			return convert.Result{}, false
		}
		chunk = v
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxBodyBytes)
	res, err := convert.FromStream(c.Request.Context(), body, chunk)
	kind := sbp.ErrorKind(err)
	if err != nil {
		s.status.MarkConversion(time.Now().UTC(), 0, 0, err, kind)
		log.Printf("convert failed kind=%s err=%v", kind, err)
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error(), Kind: kind})
		return convert.Result{}, false
	}
	s.status.MarkConversion(time.Now().UTC(), len(res.Collection.Features), res.Points, nil, "")
	log.Printf("convert ok features=%d points=%d dropped=%d", len(res.Collection.Features), res.Points, res.Dropped)
	return res, true
}

func statusForError(err error) int {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, sbp.ErrTruncatedHeader), errors.Is(err, sbp.ErrTruncatedRecord), errors.Is(err, sbp.ErrInvalidHeader):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusBadRequest
	}
}

// requestLogger logs one line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		log.Printf("http method=%s path=%s client=%s status=%d latency=%s",
			c.Request.Method, path, c.ClientIP(), c.Writer.Status(), time.Since(start))
	}
}

func Serve(ctx context.Context, cfg config.Config, status *Status, logs *LogBuffer) error {
	gin.SetMode(gin.ReleaseMode)

	srv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           Handler(cfg, status, logs),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       30 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MiB
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
