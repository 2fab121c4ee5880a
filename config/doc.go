// Package config loads credkit settings from layered sources with koanf.
//
// Precedence, lowest first: [credkit.DefaultSigningConfig], a YAML file, CREDKIT_*
// environment variables, then command-line flags that were set explicitly.
//
// Environment keys are lowercased after the prefix is stripped and a double
// underscore separates levels, so CREDKIT_PASSWORD__MEMORY_KIB sets
// password.memory_kib. The signing secret comes from secret or secret_file and
// is never accepted as a flag.
package config
