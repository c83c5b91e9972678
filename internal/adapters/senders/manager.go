package senders

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
)

// TestMnemonic is the well-known development mnemonic shared by hardhat and anvil
const TestMnemonic = "test test test test test test test test test test test junk"

// Service builds the ordered signer set of the active network.
// Index 0 is the default deployer.
type Service struct {
	cfg *config.RuntimeConfig
}

// NewService creates a new sender service
func NewService(cfg *config.RuntimeConfig) *Service {
	return &Service{cfg: cfg}
}

// Signers returns the accounts available on the active network. Development
// networks derive from MNEMONIC or the test mnemonic; live networks use
// PRIVATE_KEY, or MNEMONIC when no key is configured.
func (s *Service) Signers() ([]domain.Signer, error) {
	count := max(s.cfg.Accounts.Count, 1)

	if s.cfg.IsDevelopment() {
		mnemonic := s.cfg.Accounts.Mnemonic
		if mnemonic == "" {
			mnemonic = TestMnemonic
		}
		return toSigners(DeriveAccounts(mnemonic, count))
	}

	if s.cfg.Accounts.Mnemonic != "" && isPlaceholder(s.cfg.Accounts.PrivateKey) {
		return toSigners(DeriveAccounts(s.cfg.Accounts.Mnemonic, count))
	}

	signer, err := NewKeySigner(s.cfg.Accounts.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load PRIVATE_KEY for network %s: %w", s.cfg.Network.Name, err)
	}
	return []domain.Signer{signer}, nil
}

// Named returns the signer bound to a named account such as "deployer"
func (s *Service) Named(signers []domain.Signer, name string) (domain.Signer, error) {
	idx := s.cfg.AccountIndex(name)
	if idx < 0 || idx >= len(signers) {
		return nil, fmt.Errorf("named account %q maps to index %d but only %d accounts are available", name, idx, len(signers))
	}
	return signers[idx], nil
}

// DeriveAccounts derives count keys along m/44'/60'/0'/0/i
func DeriveAccounts(mnemonic string, count int) ([]*KeySigner, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("invalid mnemonic: %w", err)
	}

	masterKey, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, err
	}

	out := make([]*KeySigner, 0, count)
	for i := range count {
		path := make(accounts.DerivationPath, len(accounts.DefaultBaseDerivationPath))
		copy(path, accounts.DefaultBaseDerivationPath)
		path[len(path)-1] = uint32(i)

		key, err := derivePrivateKey(masterKey, path)
		if err != nil {
			return nil, fmt.Errorf("failed to derive account %d: %w", i, err)
		}
		out = append(out, newKeySigner(key))
	}
	return out, nil
}

func derivePrivateKey(masterKey *hdkeychain.ExtendedKey, path accounts.DerivationPath) (*ecdsa.PrivateKey, error) {
	key := masterKey
	for _, n := range path {
		var err error
		key, err = key.Derive(n)
		if err != nil {
			return nil, err
		}
	}

	privateKey, err := key.ECPrivKey()
	if err != nil {
		return nil, err
	}
	return privateKey.ToECDSA(), nil
}

func isPlaceholder(key string) bool {
	k := strings.TrimPrefix(strings.TrimSpace(key), "0x")
	return k == "" || k == "key"
}

func toSigners(keys []*KeySigner, err error) ([]domain.Signer, error) {
	if err != nil {
		return nil, err
	}
	out := make([]domain.Signer, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out, nil
}

// ParsePrivateKey decodes a hex private key with or without 0x prefix
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}
