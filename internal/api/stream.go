package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/trialfit-scoring-server/internal/domain"
)

// Stream message types.
const (
	streamMessageTrial   = "trial"
	streamMessageRanking = "ranking"
	streamMessageError   = "error"
)

const streamWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Browser dashboards connect cross-origin; auth happens upstream.
	CheckOrigin: func(*http.Request) bool { return true },
}

// StreamMessage is one frame of the batch scoring stream.
type StreamMessage struct {
	Type    string                      `json:"type"`
	Trial   *domain.HolisticScoreResult `json:"trial,omitempty"`
	Ranking []domain.TrialScoreSummary  `json:"ranking,omitempty"`
	Error   *domain.ServiceError        `json:"error,omitempty"`
}

// StreamBatch handles GET /api/v1/trials/batch/stream. The client sends one
// ScoreBatchRequest frame; the server streams a per-trial result frame as
// each trial completes (in request order) and closes with the full ranking.
func (h *Handlers) StreamBatch(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error response.
		return
	}
	defer conn.Close()

	var req ScoreBatchRequest
	if err := conn.ReadJSON(&req); err != nil {
		h.streamError(conn, c, "invalid batch scoring request: "+err.Error())
		return
	}
	if len(req.Trials) == 0 {
		h.streamError(conn, c, "at least one trial is required")
		return
	}

	ctx := c.Request.Context()
	for i := range req.Trials {
		result := h.holistic.ComputeHolisticScore(ctx, &req.Patient, &req.Trials[i], req.Pharmacogenes, nil)
		if err := h.writeStream(conn, StreamMessage{Type: streamMessageTrial, Trial: result}); err != nil {
			return
		}
	}

	summaries := h.batch.ComputeBatch(ctx, &req.Patient, req.Trials, req.Pharmacogenes)
	h.saveReport(ctx, domain.REPORT_BATCH, req, summaries)

	if err := h.writeStream(conn, StreamMessage{Type: streamMessageRanking, Ranking: summaries}); err != nil {
		return
	}
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(streamWriteTimeout))
}

func (h *Handlers) writeStream(conn *websocket.Conn, msg StreamMessage) error {
	conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	return conn.WriteJSON(msg)
}

func (h *Handlers) streamError(conn *websocket.Conn, c *gin.Context, message string) {
	h.writeStream(conn, StreamMessage{
		Type:  streamMessageError,
		Error: domain.NewServiceError(domain.ErrInvalidInput, message, "", c.GetString("correlation_id")),
	})
}
