// Package config provides configuration parsing for retree.
//
// The configuration is stored in retree.json next to the documents it
// applies to. Every field is optional; missing values take the defaults
// returned by New.
//
// # Configuration File Structure
//
//	{
//	  "log": {"level": "debug", "format": "json"},
//	  "inspector": {"host": "0.0.0.0", "port": 7070},
//	  "metrics": {"enabled": true, "namespace": "retree"},
//	  "tracing": {"tracerName": "retree"},
//	  "snapshot": {
//	    "dir": "snapshots",
//	    "s3": {"bucket": "trees", "prefix": "dev/", "region": "eu-west-1"}
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Inspector:", cfg.InspectorAddress())
package config
