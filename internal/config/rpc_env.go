package config

import (
	"os"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// rpcRefPattern matches a url that is nothing but a ${NAME} reference
var rpcRefPattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

var networkNameReplacer = strings.NewReplacer("-", "_", ".", "_")

// RPCEnvVar returns the variable holding a network's RPC url: the one referenced
// by the configured url, or <NAME>_RPC_URL (sepolia -> SEPOLIA_RPC_URL).
func RPCEnvVar(network, rawURL string) string {
	if m := rpcRefPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return networkNameReplacer.Replace(strings.ToUpper(network)) + "_RPC_URL"
}

// ResolveRPCURL expands the configured url and falls back to the env var, then
// to a placeholder that fails on first use
func ResolveRPCURL(network, rawURL string) (url, envVar string) {
	envVar = RPCEnvVar(network, rawURL)
	url = lo.CoalesceOrEmpty(os.ExpandEnv(rawURL), os.Getenv(envVar), PlaceholderRPCURL(network))
	return url, envVar
}
