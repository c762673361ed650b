package live

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HeartbeatInterval is how often an idle stream sends a heartbeat event.
var HeartbeatInterval = 25 * time.Second

// Snapshot loads the full state a stream displays.
type Snapshot func(ctx context.Context) (interface{}, error)

// Stream serves a server-sent event stream on c. It sends a "snapshot" event
// on connect and after every signal on sub, and returns when the client
// disconnects or sub is closed. sub is always closed on return.
func Stream(c *gin.Context, sub *Subscription, snapshot Snapshot) error {
	defer sub.Close()
	ctx := c.Request.Context()

	// The server write timeout would otherwise cut long-lived streams.
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	send := func() error {
		data, err := snapshot(ctx)
		if err != nil {
			c.SSEvent("error", gin.H{"message": "failed to load snapshot"})
			c.Writer.Flush()
			return fmt.Errorf("failed to load snapshot: %w", err)
		}
		c.SSEvent("snapshot", data)
		c.Writer.Flush()
		return nil
	}

	if err := send(); err != nil {
		return err
	}

	heartbeat := time.NewTicker(HeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.Done():
			return nil
		case <-sub.C:
			if err := send(); err != nil {
				return err
			}
		case now := <-heartbeat.C:
			c.SSEvent("heartbeat", now.UTC().Format(time.RFC3339))
			c.Writer.Flush()
		}
	}
}
