package matchmaking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/wordduel/internal/dependencies/clock"
	"github.com/mcoot/wordduel/internal/model"
	"github.com/mcoot/wordduel/internal/storage"
)

// Notifier delivers server events to live connections.
// Send must not block on slow or closed connections.
type Notifier interface {
	Send(conn model.ConnectionID, event model.EventType, payload any)
}

// publisher records finished matches and tells players how they went
type publisher struct {
	storage  storage.Storage
	notifier Notifier
	clock    clock.Clock
	timeout  time.Duration
	logger   *slog.Logger
}

// cancelled tells every remaining player the match ended without a result
func (p *publisher) cancelled(results []finalResult) {
	for _, r := range results {
		p.notifier.Send(r.conn, model.EventGameCancelled, model.GameCancelledPayload{Msg: model.CancelledMessage})
	}
}

// persist saves both players' records in one call. A storage failure is
// logged and not returned; the match still finishes.
func (p *publisher) persist(m *Match, a, b finalResult) {
	playedAt := p.clock.Now()
	records := []*model.MatchRecord{
		p.record(m, a, b, playedAt),
		p.record(m, b, a, playedAt),
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.storage.SaveMatchRecords(ctx, records...); err != nil {
		err = fmt.Errorf("%w: room %s: %w", model.ErrPersistenceFailure, m.room, err)
		p.logger.Error("failed to persist match result",
			slog.String("room", string(m.room)),
			slog.String("error", err.Error()),
		)
	}
}

// result sends each player their game_over view
func (p *publisher) result(m *Match, a, b finalResult) {
	p.notifier.Send(a.conn, model.EventGameOver, gameOver(a, b))
	p.notifier.Send(b.conn, model.EventGameOver, gameOver(b, a))

	p.logger.Info("match finished",
		slog.String("room", string(m.room)),
		slog.String("letters", m.letters.String()),
		slog.Int("score_a", a.score),
		slog.Int("score_b", b.score),
	)
}

func (p *publisher) record(m *Match, own, opponent finalResult, at time.Time) *model.MatchRecord {
	return &model.MatchRecord{
		ID:         model.RecordID(uuid.NewString()),
		UserID:     own.user,
		OpponentID: opponent.user,
		Letters:    m.letters,
		Score:      own.score,
		Words:      own.words,
		Mode:       model.ModeDuel,
		Outcome:    model.CompareScores(own.score, opponent.score),
		PlayedAt:   at,
	}
}

func gameOver(own, opponent finalResult) model.GameOverPayload {
	return model.GameOverPayload{
		YourScore:     own.score,
		YourWords:     own.words,
		OpponentScore: opponent.score,
		OpponentWords: opponent.words,
		Result:        model.CompareScores(own.score, opponent.score),
	}
}
