package catalog

// Origin names the path that produced a Result.
type Origin string

const (
	OriginRemote   Origin = "remote"
	OriginCache    Origin = "cache"
	OriginFallback Origin = "fallback"
	OriginFailed   Origin = "failed"
)

// Result carries a value together with the path that produced it. Err is the
// remote failure that forced a fallback, or the reason for OriginFailed.
type Result[T any] struct {
	Value  T
	Origin Origin
	Err    error
}

func (r Result[T]) Failed() bool { return r.Origin == OriginFailed }
