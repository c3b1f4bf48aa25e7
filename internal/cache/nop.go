package cache

import (
	"context"
	"time"
)

// Nop кеш-заглушка, используемая когда Redis не настроен.
type Nop struct{}

func (Nop) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (Nop) Set(context.Context, string, any, time.Duration) error { return nil }
func (Nop) Invalidate(context.Context, string) error              { return nil }
func (Nop) Incr(context.Context, string) (int64, error)           { return 0, nil }
func (Nop) Close() error                                          { return nil }
