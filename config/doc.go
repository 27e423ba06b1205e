// Package config loads the engine configuration from HCL.
//
// A configuration file names the script to run, the VM backend and the
// frame rate, and may declare the initial scene:
//
//	script           = "main.lua"
//	backend          = "lua"
//	frame_rate       = 30
//	log_level        = "info"
//	background_color = [0.1, 0.1, 0.2]
//
//	world "main" {
//	  entity "camera" {
//	    components = ["Camera"]
//	    position   = [0, 2, 10]
//	  }
//	  entity "box" {
//	    components = ["Cube"]
//	    rotation   = [1, 0, 0, 0]
//	  }
//	  view "main" {
//	    priority = 0
//	    camera   = "camera"
//	  }
//	}
//
// Rotations are quaternions written w, x, y, z. Relative script paths
// resolve against the folder holding the file. Expressions can read the
// environment through env and that folder through base_folder:
//
//	script = "${env.OAK_SCRIPT}"
package config
