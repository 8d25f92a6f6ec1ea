package query

// Source identifies which branch of the interpreter produced a Spec.
type Source string

const (
	// SourceModel means the remote language model parsed the query.
	SourceModel Source = "model"
	// SourceHeuristic means the local keyword/number extraction parsed it.
	SourceHeuristic Source = "heuristic"
	// SourceCache means a previously parsed spec was served from cache.
	SourceCache Source = "cache"
)
