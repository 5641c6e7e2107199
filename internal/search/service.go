package search

// Service runs searches against a Store.
type Service struct {
	store Store
	cache SuggestionCache
}

// Option configures a Service.
type Option func(*Service)

// WithSuggestionCache puts a cache in front of suggestion lookups.
func WithSuggestionCache(c SuggestionCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// NewService creates a Service reading from store.
func NewService(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}
