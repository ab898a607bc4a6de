// Package loader registers the HTTP features of the report server.
//
// A Feature names itself, says whether it is enabled and mounts its routes on a
// fiber.Router. cmd/start.go registers 'abandons' always and 'integrity' when
// object storage is configured, then calls Manager.LoadAll, which skips disabled
// features and returns the names of those it mounted.
//
//	mgr := loader.NewManager()
//	mgr.Register(abandons.NewFeature(logg, cache, archive, defaults))
//	loaded, err := mgr.LoadAll(app)
package loader
