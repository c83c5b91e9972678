package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRPCEnvVar(t *testing.T) {
	tests := []struct {
		name    string
		network string
		rawURL  string
		want    string
	}{
		{name: "referenced variable", network: "rinkeby", rawURL: "${ALCHEMY_RINKEBY}", want: "ALCHEMY_RINKEBY"},
		{name: "leading underscore", network: "sepolia", rawURL: "${_SEPOLIA}", want: "_SEPOLIA"},
		{name: "literal url", network: "polygon", rawURL: "https://polygon-rpc.com", want: "POLYGON_RPC_URL"},
		{name: "reference with suffix", network: "goerli", rawURL: "${GOERLI}/v3", want: "GOERLI_RPC_URL"},
		{name: "bare dollar", network: "goerli", rawURL: "$GOERLI", want: "GOERLI_RPC_URL"},
		{name: "empty url", network: "sepolia", want: "SEPOLIA_RPC_URL"},
		{name: "dash and dot", network: "polygon-zk.evm", want: "POLYGON_ZK_EVM_RPC_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RPCEnvVar(tt.network, tt.rawURL))
		})
	}
}

func TestResolveRPCURL(t *testing.T) {
	t.Run("expands reference", func(t *testing.T) {
		t.Setenv("FUNDME_TEST_RPC", "https://rpc.example")
		url, envVar := ResolveRPCURL("rinkeby", "${FUNDME_TEST_RPC}")
		assert.Equal(t, "https://rpc.example", url)
		assert.Equal(t, "FUNDME_TEST_RPC", envVar)
	})

	t.Run("conventional variable", func(t *testing.T) {
		t.Setenv("KOVAN_RPC_URL", "https://kovan.example")
		url, envVar := ResolveRPCURL("kovan", "")
		assert.Equal(t, "https://kovan.example", url)
		assert.Equal(t, "KOVAN_RPC_URL", envVar)
	})

	t.Run("placeholder when unset", func(t *testing.T) {
		t.Setenv("FUNDME_UNSET_RPC", "")
		url, _ := ResolveRPCURL("rinkeby", "${FUNDME_UNSET_RPC}")
		assert.Equal(t, "https://eth-rinkeby/example", url)
	})
}
