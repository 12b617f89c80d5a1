package poll

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/hosteldesk/hosteldesk/internal/api"
	"github.com/hosteldesk/hosteldesk/internal/model"
)

// UnreadCountMsg is a tea.Msg carrying the latest unread notification count.
type UnreadCountMsg struct {
	Count int
	Err   error
}

// fetchTimeout is the maximum time allowed for a single count fetch.
const fetchTimeout = 30 * time.Second

// Poller periodically fetches the unread notification count in the
// background so the header badge stays fresh without user interaction.
type Poller struct {
	svc      api.NotificationService
	logger   *zap.Logger
	interval time.Duration

	resultCh  chan UnreadCountMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool
}

// New creates a new Poller. Interval values of zero or less fall back
// to two minutes.
func New(svc api.NotificationService, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = 120 * time.Second
	}
	return &Poller{
		svc:       svc,
		logger:    logger,
		interval:  interval,
		resultCh:  make(chan UnreadCountMsg, 16),
		triggerCh: make(chan struct{}, 16),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the polling goroutine and returns a subscription
// command that delivers UnreadCountMsg messages to the Bubble Tea
// runtime. Calling Start more than once is a no-op.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	go p.loop()

	return p.waitForResult()
}

// Stop halts the polling goroutine.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// Refresh triggers an immediate count fetch.
func (p *Poller) Refresh() tea.Cmd {
	select {
	case p.triggerCh <- struct{}{}:
	default:
	}
	return nil
}

func (p *Poller) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.fetchCount()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.fetchCount()
		case <-p.triggerCh:
			p.fetchCount()
		}
	}
}

// fetchCount asks the backend for a single unread notification and
// reads the total off the pagination envelope.
func (p *Poller) fetchCount() {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	q := model.NewQuery(1)
	q.Filter = model.FilterUnread

	result, err := p.svc.ListNotifications(ctx, q)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("unread count poll failed", zap.Error(err))
		}
		p.sendResult(UnreadCountMsg{Err: err})
		return
	}

	p.sendResult(UnreadCountMsg{Count: result.Pagination.TotalItems})
}

// sendResult sends a message on the result channel without blocking.
func (p *Poller) sendResult(msg UnreadCountMsg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the poller
	}
}

func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next count.
// This should be called after processing an UnreadCountMsg to continue
// listening for future results.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
