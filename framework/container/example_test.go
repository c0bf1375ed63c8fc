package container_test

import (
	"fmt"

	"github.com/km-arc/go-container/framework/container"
)

type Clock interface{ Now() string }

type fixedClock struct{}

func (fixedClock) Now() string { return "2024-01-01T00:00:00Z" }

type reportService struct {
	clock  Clock
	period string
}

func Example() {
	FixedClock := container.NewClass("FixedClock", func(...any) (any, error) { return fixedClock{}, nil })
	Reports := container.NewClass("Reports", func(args ...any) (any, error) {
		return &reportService{clock: args[0].(Clock), period: args[1].(string)}, nil
	}, container.Inject(container.TypeOf[Clock]()), container.WithLifecycle(container.Transient))

	app := container.New()
	if err := app.Register(FixedClock).As(container.TypeOf[Clock]()); err != nil {
		panic(err)
	}

	scope := app.Child()
	defer scope.Clear()

	r := container.MustResolve[*reportService](scope, Reports, container.WithArgs("Q1"))
	fmt.Println(r.period, r.clock.Now())
	// Output: Q1 2024-01-01T00:00:00Z
}
