package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/homework-scheduler/internal/application"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator(""),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// HomeworkServiceDeps captures dependencies for constructing a homework service.
type HomeworkServiceDeps struct {
	Homeworks   application.HomeworkRepository
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
	Options     []application.HomeworkServiceOption
}

// NewHomeworkService builds a homework service using the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewHomeworkService(deps HomeworkServiceDeps) *application.HomeworkService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	opts := append([]application.HomeworkServiceOption(nil), deps.Options...)
	if deps.Logger != nil {
		opts = append(opts, application.WithLogger(deps.Logger))
	}
	return application.NewHomeworkService(deps.Homeworks, idGen, now, opts...)
}
