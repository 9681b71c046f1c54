// Package env names the runtime environments the service runs in.
package env

type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

func (e Environment) String() string { return string(e) }

func (e Environment) IsProduction() bool { return e == Production }
