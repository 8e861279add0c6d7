// Package verify provides the default package-verification collaborator:
// checksum comparison plus SSH-key-based signature verification, so a
// downloaded package can be checked against the host's trusted key list
// before it is ever written into the plugins directory.
package verify

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/ssh"

	"github.com/adi-family/pluginhost/pkg/hosterr"
)

// Verifier is the verification collaborator install_package depends on.
type Verifier interface {
	VerifyChecksum(data []byte, expectedSHA256Hex string) error
	VerifySignature(data, signature []byte, trustedKeys []ssh.PublicKey) error
}

// SSHVerifier is the default Verifier: checksums are plain SHA-256, and
// signatures are verified against a caller-supplied set of SSH-format
// trusted public keys, as parsed from authorized_keys-style lines by
// ParseTrustedKeys.
type SSHVerifier struct{}

// New constructs the default SSHVerifier.
func New() SSHVerifier { return SSHVerifier{} }

// VerifyChecksum compares the SHA-256 of data against expectedSHA256Hex.
func (SSHVerifier) VerifyChecksum(data []byte, expectedSHA256Hex string) error {
	sum := sha256.Sum256(data)
	got := hex.EncodeToString(sum[:])
	if got != expectedSHA256Hex {
		return hosterr.Newf(hosterr.ErrChecksumMismatch, "verify.checksum",
			"computed checksum %s does not match expected %s", got, expectedSHA256Hex)
	}
	return nil
}

// VerifySignature verifies signature (an ssh.Signature in SSH wire
// encoding, as ssh.Marshal produces from a Signer's output over data itself)
// against data, accepting it if it validates under any key in trustedKeys.
// The armored SSHSIG format written by `ssh-keygen -Y sign` is not accepted.
func (SSHVerifier) VerifySignature(data, signature []byte, trustedKeys []ssh.PublicKey) error {
	var sig ssh.Signature
	if err := ssh.Unmarshal(signature, &sig); err != nil {
		return hosterr.Wrap(err, hosterr.ErrSignatureInvalid, "verify.signature")
	}

	for _, key := range trustedKeys {
		if key.Verify(data, &sig) == nil {
			return nil
		}
	}
	return hosterr.New(hosterr.ErrSignatureInvalid, "verify.signature", nil).
		WithAdvice("signature did not validate against any trusted key")
}

// ParseTrustedKeys parses a list of authorized_keys-format lines into
// ssh.PublicKey values, skipping blank lines.
func ParseTrustedKeys(lines []string) ([]ssh.PublicKey, error) {
	keys := make([]ssh.PublicKey, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(line))
		if err != nil {
			return nil, hosterr.Wrap(err, hosterr.ErrSignatureInvalid, "verify.parse_trusted_keys")
		}
		keys = append(keys, key)
	}
	return keys, nil
}
