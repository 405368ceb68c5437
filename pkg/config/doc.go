// Package config fills typed configuration structs from environment variables.
//
// Struct fields are described with github.com/caarlos0/env tags. Before the
// first parse a .env file in the working directory is loaded if present
// (github.com/joho/godotenv); real environment variables always win.
//
// Each struct type is parsed once per process and cached, which matches how
// the application treats configuration: decided at start-up, never changed.
//
//	type Config struct {
//	    Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
package config
