package eventbus

import (
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

// EventBus delivers published values to every subscribed func whose
// parameters accept them.
type EventBus interface {
	Publish(args ...any)
	Subscribe(handler any)
	Unsubscribe(handler any)
	SubscribersCount() int
}

type publisher struct {
	log *logrus.Logger

	mu       sync.RWMutex
	handlers []reflect.Value
}

func NewEventPublisher(log *logrus.Logger) EventBus {
	return &publisher{log: log}
}

// MatchSignature reports whether handler can be called with args. Nil args
// match interface and pointer parameters only.
func MatchSignature(handler any, args []any) bool {
	t := reflect.TypeOf(handler)
	if t == nil || t.Kind() != reflect.Func || t.NumIn() != len(args) {
		return false
	}
	for i, arg := range args {
		param := t.In(i)
		if arg == nil {
			if k := param.Kind(); k != reflect.Interface && k != reflect.Ptr {
				return false
			}
			continue
		}
		if !reflect.TypeOf(arg).AssignableTo(param) {
			return false
		}
	}
	return true
}

func callArgs(handler reflect.Type, args []any) []reflect.Value {
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(handler.In(i))
			continue
		}
		in[i] = reflect.ValueOf(arg)
	}
	return in
}

// Publish runs matching handlers synchronously in subscription order. A
// panicking handler is logged and does not stop the others.
func (p *publisher) Publish(args ...any) {
	p.mu.RLock()
	handlers := make([]reflect.Value, len(p.handlers))
	copy(handlers, p.handlers)
	p.mu.RUnlock()

	handled := 0
	for _, h := range handlers {
		if !MatchSignature(h.Interface(), args) {
			continue
		}
		if p.call(h, args) {
			handled++
		}
	}
	if handled == 0 && p.log != nil {
		p.log.WithField("args", args).Warn("eventbus: no subscriber handled the event")
	}
}

func (p *publisher) call(h reflect.Value, args []any) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			if p.log != nil {
				p.log.WithFields(logrus.Fields{
					"handler": h.Type().String(),
					"panic":   r,
				}).Error("eventbus: handler panicked")
			}
		}
	}()
	h.Call(callArgs(h.Type(), args))
	return true
}

func (p *publisher) Subscribe(handler any) {
	v := reflect.ValueOf(handler)
	if v.Kind() != reflect.Func {
		panic("eventbus: handler must be a function")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, v)
}

// Unsubscribe removes the first subscription of handler. Funcs are compared
// by code pointer, so every closure of the same literal is the same handler.
func (p *publisher) Unsubscribe(handler any) {
	ptr := reflect.ValueOf(handler).Pointer()
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, h := range p.handlers {
		if h.Pointer() == ptr {
			p.handlers = append(p.handlers[:i], p.handlers[i+1:]...)
			return
		}
	}
}

func (p *publisher) SubscribersCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.handlers)
}
