package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/panscience/chat-server/internal/domain/chat"
	"github.com/panscience/chat-server/internal/infrastructure/metrics"
)

// TitlePool runs conversation title generation off the request path.
type TitlePool struct {
	titler      *chat.Titler
	tasks       chan chat.TitleTask
	workerCount int
	taskTimeout time.Duration
	log         zerolog.Logger
	wg          sync.WaitGroup
	stopOnce    sync.Once
	stopChan    chan struct{}
}

// Config contains worker pool configuration.
type Config struct {
	WorkerCount int
	QueueSize   int
	TaskTimeout time.Duration
}

// NewTitlePool creates a new title worker pool.
func NewTitlePool(titler *chat.Titler, cfg Config, log zerolog.Logger) *TitlePool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = 30 * time.Second
	}
	return &TitlePool{
		titler:      titler,
		tasks:       make(chan chat.TitleTask, cfg.QueueSize),
		workerCount: cfg.WorkerCount,
		taskTimeout: cfg.TaskTimeout,
		log:         log.With().Str("component", "title-pool").Logger(),
		stopChan:    make(chan struct{}),
	}
}

// Enqueue hands a task to the pool without blocking. It reports false when
// the queue is full or the pool is stopping; the conversation then simply
// keeps its placeholder title.
func (p *TitlePool) Enqueue(task chat.TitleTask) bool {
	select {
	case <-p.stopChan:
		return false
	default:
	}

	select {
	case p.tasks <- task:
		metrics.SetTitleQueueDepth(len(p.tasks))
		return true
	default:
		metrics.RecordTitleTask("dropped")
		return false
	}
}

// Start launches the workers.
func (p *TitlePool) Start(ctx context.Context) error {
	p.log.Info().Int("worker_count", p.workerCount).Msg("starting title pool")

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.run(ctx, id)
		}(i + 1)
	}

	return nil
}

func (p *TitlePool) run(ctx context.Context, id int) {
	log := p.log.With().Int("worker", id).Logger()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopChan:
			// Drain what is already queued before exiting.
			for {
				select {
				case task := <-p.tasks:
					p.handle(ctx, task)
				default:
					return
				}
			}
		case task := <-p.tasks:
			metrics.SetTitleQueueDepth(len(p.tasks))
			p.handle(ctx, task)
			log.Debug().Str("conversation_id", task.ConversationID).Msg("title task done")
		}
	}
}

func (p *TitlePool) handle(ctx context.Context, task chat.TitleTask) {
	taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.taskTimeout)
	defer cancel()

	p.titler.Process(taskCtx, task)
	metrics.RecordTitleTask("processed")
}

// Stop signals the workers and waits for in-flight tasks to finish.
func (p *TitlePool) Stop() {
	p.log.Info().Msg("stopping title pool")

	p.stopOnce.Do(func() {
		close(p.stopChan)
	})

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.log.Info().Msg("all title workers stopped")
	case <-time.After(30 * time.Second):
		p.log.Warn().Msg("title pool shutdown timed out")
	}
}

// Ensure interface compliance.
var _ chat.TitleEnqueuer = (*TitlePool)(nil)
