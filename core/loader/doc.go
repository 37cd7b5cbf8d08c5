// Package loader registers the console's HTTP features and mounts them on the
// router at startup.
//
// A feature is anything with a name, an enabled switch and a Load method that
// adds its routes. Features are loaded in registration order; a disabled one is
// logged and skipped, and the first Load error aborts startup:
//
//	manager := loader.NewManager(logger)
//	manager.Register(logconfig.NewFeature(db, matcher, logger))
//	manager.Register(patterns.NewFeature(matcher, sampleService, logger))
//	if err := manager.LoadAll(app); err != nil {
//	    return err
//	}
package loader
