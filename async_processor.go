package dogstatsd

import (
	"context"
	"errors"
	"sync/atomic"
)

// asyncProcessor is a generic worker for handling asynchronous emission.
type asyncProcessor[T any] struct {
	processChan    chan T
	overflowPolicy OverflowPolicy
	stopChan       chan struct{}
	doneChan       chan struct{}
	stopped        atomic.Bool
	processFunc    func(T) error
	errorHandler   func(error)
}

// errQueueOverflow is reported when the queue is full and the overflow
// policy is set to drop.
var errQueueOverflow = errors.New("queue overflow")

// newAsyncProcessor creates a new async processor instance and starts
// its background worker.
func newAsyncProcessor[T any](bufferSize int, processFunc func(T) error, errorHandler func(error)) *asyncProcessor[T] {
	processor := &asyncProcessor[T]{
		processChan:    make(chan T, bufferSize),
		overflowPolicy: OverflowPolicyBlock, // Default to blocking
		stopChan:       make(chan struct{}),
		doneChan:       make(chan struct{}),
		processFunc:    processFunc,
		errorHandler:   errorHandler,
	}

	go processor.process()

	return processor
}

// process handles the background processing of items. When stopped it
// drains whatever is already queued before signalling done.
func (p *asyncProcessor[T]) process() {
	defer close(p.doneChan)
	for {
		select {
		case item := <-p.processChan:
			if err := p.processFunc(item); err != nil {
				p.errorHandler(err)
			}
		case <-p.stopChan:
			for {
				select {
				case item := <-p.processChan:
					if err := p.processFunc(item); err != nil {
						p.errorHandler(err)
					}
				default:
					return
				}
			}
		}
	}
}

// send queues an item for asynchronous processing.
func (p *asyncProcessor[T]) send(item T) {
	if p.stopped.Load() {
		p.errorHandler(ErrAlreadyClosed)
		return
	}

	select {
	case p.processChan <- item:
		// Item queued
	default:
		// Queue is full
		if p.overflowPolicy == OverflowPolicyDrop {
			p.errorHandler(errQueueOverflow)
			return
		}
		// Block until there's space in the queue
		p.processChan <- item
	}
}

// Shutdown stops the worker, waiting for queued items to drain or the
// context to expire, whichever comes first.
func (p *asyncProcessor[T]) Shutdown(ctx context.Context) error {
	p.stop()
	select {
	case <-p.doneChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the worker without waiting for the queue to drain.
func (p *asyncProcessor[T]) Close() error {
	p.stop()
	return nil
}

func (p *asyncProcessor[T]) stop() {
	if p.stopped.CompareAndSwap(false, true) {
		close(p.stopChan)
	}
}

// SetOverflowPolicy sets the overflow policy for the processor.
func (p *asyncProcessor[T]) SetOverflowPolicy(policy OverflowPolicy) {
	p.overflowPolicy = policy
}
