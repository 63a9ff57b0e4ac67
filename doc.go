// Package layerenv assembles environment variables from layered dotenv files
// for multi-site applications.
//
// Layers are looked up by growing a filename stem one segment at a time, so
// more specific files are parsed later and win:
//
//	app.env, app--prod.env                       (app, env id "prod")
//	site.env, site--acme.env, site--acme--prod.env (site "acme")
//
// Quick Start:
//
//	loader := layerenv.NewLoader("dotenv", project.New(layerenv.ModeBoot))
//	if err := layerenv.Bootstrap(ctx, loader, matcher); err != nil {
//	    log.Fatal(err)
//	}
//
// From the command line the same assembly is printed instead:
//
//	layerenv app        # app variables, or the existing .env file
//	layerenv app false  # app variables, ignoring an existing .env file
//	layerenv site       # variables of the active site
//
// See example_test.go for more.
package layerenv
