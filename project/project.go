// Package project provides the project-specific resolver: the environment id
// lives in PHAPP_ENV and the active site comes from SITE or APP_DEFAULT_SITE.
package project

import (
	"strings"

	"github.com/Azhovan/layerenv"
)

// Variables read by the resolver.
const (
	EnvIDVariable                 = "PHAPP_ENV"
	SiteVariable                  = "SITE"
	DefaultSiteVariable           = "APP_DEFAULT_SITE"
	MultisiteDomainVariable       = "APP_MULTISITE_DOMAIN"
	DomainPrefixSeparatorVariable = "APP_MULTISITE_DOMAIN_PREFIX_SEPARATOR"
	SiteDomainVariablePrefix      = "APP_SITE_DOMAIN--"
)

// DefaultSite is used when neither SITE nor APP_DEFAULT_SITE is set.
const DefaultSite = "default"

// SiteVar is a single site variable.
type SiteVar struct {
	Key   string
	Value string
}

// Resolver implements layerenv.Resolver and layerenv.EnvIDNamer.
type Resolver struct {
	mode layerenv.Mode
}

// New creates a Resolver. In layerenv.ModeCLI the site's default environment
// contains the request-matcher site variables; while booting those are
// provided by the matcher and the default environment is empty.
func New(mode layerenv.Mode) *Resolver {
	return &Resolver{mode: mode}
}

// EnvIDVariable returns PHAPP_ENV.
func (r *Resolver) EnvIDVariable() string {
	return EnvIDVariable
}

// DetermineEnvironment returns the value of PHAPP_ENV.
func (r *Resolver) DetermineEnvironment(env layerenv.Env) string {
	return env.Get(EnvIDVariable)
}

// DetermineActiveSite returns SITE, else APP_DEFAULT_SITE, else "default".
func (r *Resolver) DetermineActiveSite(env layerenv.Env) string {
	if site := env.Get(SiteVariable); site != "" {
		return site
	}
	if site := env.Get(DefaultSiteVariable); site != "" {
		return site
	}
	return DefaultSite
}

// DefaultEnvironment renders SiteVariables as dotenv lines in CLI mode.
func (r *Resolver) DefaultEnvironment(site string, env layerenv.Env) string {
	if r.mode != layerenv.ModeCLI {
		return ""
	}

	var b strings.Builder
	for _, v := range r.SiteVariables(site, env) {
		b.WriteString(v.Key)
		b.WriteByte('=')
		b.WriteString(v.Value)
		b.WriteByte('\n')
	}
	return b.String()
}

// SiteVariables returns the variables the multisite request matcher sets for
// site: SITE, SITE_VARIANT, SITE_HOST and SITE_MAIN_HOST.
//
// The host is "<site><APP_MULTISITE_DOMAIN_PREFIX_SEPARATOR><APP_MULTISITE_DOMAIN>"
// when APP_MULTISITE_DOMAIN is set, else the value of APP_SITE_DOMAIN--<site>.
// An empty site selects the active site.
func (r *Resolver) SiteVariables(site string, env layerenv.Env) []SiteVar {
	if site == "" {
		site = r.DetermineActiveSite(env)
	}

	var host string
	if domain := env.Get(MultisiteDomainVariable); domain != "" {
		host = site + env.Get(DomainPrefixSeparatorVariable) + domain
	} else {
		host = env.Get(SiteDomainVariablePrefix + site)
	}

	return []SiteVar{
		{Key: "SITE", Value: site},
		{Key: "SITE_VARIANT", Value: ""},
		{Key: "SITE_HOST", Value: host},
		{Key: "SITE_MAIN_HOST", Value: host},
	}
}
