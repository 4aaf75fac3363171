// Package loader registers HTTP features with the Fiber application.
//
// Each feature implements Feature. The Manager loads enabled features in
// registration order and stops at the first failure.
//
//	mgr := loader.NewManager()
//	mgr.Register(deploy.NewFeature(syncer, opts, logg))
//	if err := mgr.LoadAll(app); err != nil { ... }
package loader
