// Package container provides a hierarchical IoC (Inversion of Control)
// container for Go.
//
// # Overview
//
// A container maps identifiers to producers, builds object graphs on demand,
// injects dependencies, caches instances according to each producer's
// lifecycle and runs post-construction hooks (synchronous or asynchronous)
// before handing an instance back.
//
// Go has no runtime constructor reflection, so dependencies are declared
// explicitly on each class instead of being inferred from field types.
//
// # Producers
//
//	// Class: a constructor plus a declared descriptor
//	var Repo = container.NewClass("Repo",
//	    func(args ...any) (any, error) { return &Repo{db: args[0].(*sql.DB)}, nil },
//	    container.Inject(container.Name("db")),
//	)
//
//	// Factory: a function receiving the resolving container
//	var DB = container.NewFactory("db", func(c *container.Container, _ ...any) (any, error) {
//	    return sql.Open("postgres", dsn)
//	})
//
// Classes may extend other classes. Injections accumulate along the chain;
// lifecycle and hook come from the most derived class that declares them.
//
// # Registration
//
//	c := container.New()
//	c.Register(DB).AsSelf()
//	c.Register(Repo).As(container.TypeOf[Repository]())
//	c.Register(EmailNotifier).As(container.TypeOf[Notifier]())
//	c.Register(SMSNotifier).As(container.TypeOf[Notifier]())
//
// A class that is never registered can still be resolved by its own identity.
//
// # Resolving
//
//	repo, err := container.Resolve[Repository](c, container.TypeOf[Repository]())
//	all, err := container.ResolveAll[Notifier](c, container.TypeOf[Notifier]())
//	v, err := c.Resolve(Report, container.WithArgs("2024-Q1"), container.Strict())
//
// # Lifecycles
//
//	Singleton  one instance for the resolving container and its descendants (default)
//	Transient  a new instance on every resolution, never cached
//	PerScope   one instance per container; children never see their parent's
//
// # Scopes
//
//	req := c.Child()             // e.g. one per HTTP request
//	uow, _ := req.Resolve(UnitOfWork)
//	req.Clear()                  // the parent is untouched
//
// # Hooks
//
// A class declared WithHook(SyncHook) must implement Initializer; one
// declared WithHook(AsyncHook) must implement AsyncInitializer. Resolve
// waits for asynchronous hooks; ResolveAsync returns a *Deferred instead of
// blocking the caller.
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    app.Singleton("mailer", func(c *container.Container, _ ...any) (any, error) {
//	        return mail.NewSMTP(), nil
//	    })
//	    return nil
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
package container
