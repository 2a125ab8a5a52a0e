// Package config provides configuration parsing for abs projects.
//
// The configuration is stored in abs.json (or abs.yaml) at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "attributeSelector": "data-abs-component",
//	  "components": ["Tabs", "Menu", "Carousel"],
//	  "liveness": "tag",
//	  "continueOnError": false,
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "serve": {
//	    "host": "localhost",
//	    "port": 4100,
//	    "maxBodyBytes": 4194304
//	  },
//	  "metrics": {
//	    "namespace": "abs"
//	  },
//	  "sources": {
//	    "s3Region": "eu-west-1",
//	    "httpTimeout": "15s"
//	  }
//	}
//
// "nodeAttributeSelector" is accepted as an alias of "attributeSelector".
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mgr := component.New[*html.Node](doc, cfg.ManagerOptions(logger)...)
package config
