// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.4.0"

// Milestones:
// 0.4.0 - HTTP API with Prometheus metrics, orb table hot reload, ephemeris table dump
// 0.3.0 - Fortune readings (daily, monthly, yearly, birth reading), synastry
// 0.2.0 - JPL Horizons and tabulated ephemerides, seven house systems, viper config
// 0.1.0 - Initial release: natal chart with Placidus houses and major aspects
