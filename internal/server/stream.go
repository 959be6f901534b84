package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/cyberfish/internal/leaderboard"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Stream codecs, chosen with the codec query parameter. JSON goes out as
// text frames, msgpack as binary frames.
const (
	CodecJSON    = "json"
	CodecMsgpack = "msgpack"
)

// FeedMessage is pushed to stream subscribers: once on connect and again
// after every score that changes the ledger.
type FeedMessage struct {
	Type   string                    `json:"type" msgpack:"type"`
	Scores []leaderboard.ScoreRecord `json:"scores" msgpack:"scores"`
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	codec := r.URL.Query().Get("codec")
	switch codec {
	case "":
		codec = CodecJSON
	case CodecJSON, CodecMsgpack:
	default:
		writeError(w, http.StatusBadRequest, "Unknown codec")
		return
	}

	initial, err := s.ledger.ListScores(r.Context())
	if err != nil {
		s.logger.Error("list scores for stream", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch scores")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		s.logger.Warn("websocket upgrade", "err", err)
		return
	}

	sub := s.feed.Subscribe()
	done := make(chan struct{})
	go readPump(conn, done)

	s.writePump(conn, codec, initial, sub, done)
	s.feed.Unsubscribe(sub)
}

// readPump discards client messages and closes done when the peer goes away.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump is the only writer on conn.
func (s *Server) writePump(conn *websocket.Conn, codec string, initial []leaderboard.ScoreRecord, sub <-chan []leaderboard.ScoreRecord, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	if err := writeSnapshot(conn, codec, initial); err != nil {
		return
	}

	for {
		select {
		case records, ok := <-sub:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
			if err := writeSnapshot(conn, codec, records); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			return
		}
	}
}

func writeSnapshot(conn *websocket.Conn, codec string, records []leaderboard.ScoreRecord) error {
	if records == nil {
		records = []leaderboard.ScoreRecord{}
	}
	msg := FeedMessage{Type: "snapshot", Scores: records}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if codec != CodecMsgpack {
		return conn.WriteJSON(msg)
	}
	data, err := msgpack.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.BinaryMessage, data)
}
