// Package config defines the settings of the external tools driven by the
// pipeline (execution environments, reference database, helper scripts) and
// loads them from an optional HCL file.
//
// Every setting has a default, so running without a settings file reproduces
// the reference installation: conda environments named genomad,
// DeepMicroClass and seqkit, the geNomad database in ./database/genomad_db and
// the slicing scripts in ./scripts.
//
// String attributes are HCL expressions evaluated with an `env` object that
// exposes the process environment, e.g.
//
//	genomad {
//	  database = "${env.HOME}/db/genomad_db"
//	}
package config
