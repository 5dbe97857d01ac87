package telegram

import (
	"context"
	"log"
	"sync"
	"time"
)

// turnRequest is one chat message waiting to be processed.
type turnRequest struct {
	ctx       context.Context
	chatID    int64
	sessionID string
	text      string
}

// workerPool processes turns in parallel. Turns for the same session
// are still serialized inside the orchestrator; the pool only bounds
// overall concurrency and applies per-chat rate limiting.
type workerPool struct {
	requestQueue chan *turnRequest
	workerCount  int
	handler      *BotHandler
	wg           sync.WaitGroup

	rateLimiterMu sync.Mutex
	rateLimiter   map[int64]*chatRateLimit
}

type chatRateLimit struct {
	lastRequest  time.Time
	requestCount int
}

const (
	maxRequestsPerSecond   = 3
	requestQueueSize       = 100
	defaultWorkerCount     = 10
	turnTimeout            = 60 * time.Second
	rateLimiterCleanupTime = 5 * time.Minute
	rateLimiterMaxIdleTime = 10 * time.Minute
)

func newWorkerPool(handler *BotHandler, workerCount int) *workerPool {
	if workerCount <= 0 {
		workerCount = defaultWorkerCount
	}
	return &workerPool{
		requestQueue: make(chan *turnRequest, requestQueueSize),
		workerCount:  workerCount,
		handler:      handler,
		rateLimiter:  make(map[int64]*chatRateLimit),
	}
}

func (wp *workerPool) start(ctx context.Context) {
	log.Printf("starting %d workers for parallel turn processing", wp.workerCount)
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
	go wp.cleanupRateLimits(ctx)
}

func (wp *workerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-ctx.Done():
			log.Printf("worker %d shutting down", id)
			return
		case req, ok := <-wp.requestQueue:
			if !ok {
				log.Printf("worker %d shutting down (queue closed)", id)
				return
			}
			if req == nil {
				continue
			}

			if !wp.allowRequest(req.chatID) {
				wp.handler.sendMessage(req.chatID, "Too many requests. Please wait a moment.")
				continue
			}

			wp.processWithTimeout(req)
		}
	}
}

func (wp *workerPool) processWithTimeout(req *turnRequest) {
	ctx, cancel := context.WithTimeout(req.ctx, turnTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic while processing turn for chat %d: %v", req.chatID, r)
			wp.handler.sendMessage(req.chatID, "Something went wrong. Please try again.")
		}
	}()

	wp.handler.processTurn(ctx, req)
}

// allowRequest applies a small per-chat rate limit.
func (wp *workerPool) allowRequest(chatID int64) bool {
	wp.rateLimiterMu.Lock()
	defer wp.rateLimiterMu.Unlock()

	now := time.Now()
	limiter, exists := wp.rateLimiter[chatID]
	if !exists {
		wp.rateLimiter[chatID] = &chatRateLimit{lastRequest: now, requestCount: 1}
		return true
	}

	if now.Sub(limiter.lastRequest) >= time.Second {
		limiter.requestCount = 1
		limiter.lastRequest = now
		return true
	}

	if limiter.requestCount >= maxRequestsPerSecond {
		log.Printf("rate limit exceeded for chat %d", chatID)
		return false
	}
	limiter.requestCount++
	return true
}

// cleanupRateLimits drops idle per-chat limiters so the map does not
// grow without bound.
func (wp *workerPool) cleanupRateLimits(ctx context.Context) {
	ticker := time.NewTicker(rateLimiterCleanupTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			wp.rateLimiterMu.Lock()
			for chatID, limiter := range wp.rateLimiter {
				if now.Sub(limiter.lastRequest) > rateLimiterMaxIdleTime {
					delete(wp.rateLimiter, chatID)
				}
			}
			wp.rateLimiterMu.Unlock()
		}
	}
}

// submit queues a turn, rejecting it when the queue is full.
func (wp *workerPool) submit(req *turnRequest) bool {
	select {
	case wp.requestQueue <- req:
		return true
	default:
		log.Printf("worker pool queue is full (%d/%d), rejecting request from chat %d",
			len(wp.requestQueue), requestQueueSize, req.chatID)
		wp.handler.sendMessage(req.chatID, "The assistant is very busy right now. Please try again shortly.")
		return false
	}
}

func (wp *workerPool) shutdown() {
	log.Printf("shutting down worker pool, %d turns in queue", len(wp.requestQueue))
	close(wp.requestQueue)
	wp.wg.Wait()
}
