package server

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/hutamy/go-invoice-frontend/internal/domain"
)

const previewWriteTimeout = 5 * time.Second

var previewUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

type previewTotals struct {
	Items    []domain.InvoiceItem `json:"items"`
	Subtotal int64                `json:"subtotal"`
	Tax      int64                `json:"tax"`
	Total    int64                `json:"total"`
}

// handlePreviewSocket keeps a websocket open for the generator page: each
// draft the browser sends comes back with freshly computed totals, so the
// preview updates as the user types without a request per keystroke.
func (s *Server) handlePreviewSocket(c echo.Context) error {
	conn, err := previewUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	for {
		var draft domain.PublicInvoice
		if err := conn.ReadJSON(&draft); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("Preview socket closed unexpectedly", "error", err)
			}
			return nil
		}

		draft.Recalculate()
		totals := previewTotals{
			Items:    draft.Items,
			Subtotal: draft.Subtotal,
			Tax:      draft.Tax,
			Total:    draft.Total,
		}

		if err := conn.SetWriteDeadline(time.Now().Add(previewWriteTimeout)); err != nil {
			return nil
		}
		if err := conn.WriteJSON(totals); err != nil {
			return nil
		}
	}
}
