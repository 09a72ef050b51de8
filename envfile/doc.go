// Package envfile loads proxy variables from a YAML file instead of the
// process environment, for hosts where the environment cannot carry them
// (containers, sidecars, long-running daemons reconfigured in place).
//
// The file is a flat mapping whose keys are the proxy variable names in
// either case:
//
//	http_proxy: http://proxy.corp:3128
//	no_proxy: localhost,.corp.internal
//
// Unknown keys are rejected. When both cases of a variable appear, the
// lowercase one wins, matching resolver precedence. A key with an empty or
// null value declares the variable present but empty, which occupies its
// slot in the fallback chain without naming a proxy.
//
// # Usage
//
// Load once:
//
//	snap, err := envfile.Load("/etc/envproxy/proxy.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r := envproxy.New(envproxy.WithEnvironment(snap))
//
// Serve lookups from a reloadable source:
//
//	src, err := envfile.NewSource("/etc/envproxy/proxy.yaml")
//	r := envproxy.New(envproxy.WithEnvironment(src))
//
// # File Watching
//
// Watch for changes:
//
//	watcher, err := envfile.NewWatcher(src, func(snap envproxy.Snapshot) {
//	    // variables changed
//	})
//	watcher.Start(ctx)
//	defer watcher.Stop()
package envfile
