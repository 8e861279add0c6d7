package verify

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/adi-family/pluginhost/pkg/hosterr"
)

func TestVerifyChecksumMatches(t *testing.T) {
	v := New()
	data := []byte("package bytes")
	sum := sha256.Sum256(data)

	require.NoError(t, v.VerifyChecksum(data, hex.EncodeToString(sum[:])))
}

func TestVerifyChecksumMismatch(t *testing.T) {
	v := New()
	err := v.VerifyChecksum([]byte("data"), "0000000000000000000000000000000000000000000000000000000000000")
	require.Error(t, err)
	require.True(t, hosterr.IsCode(err, hosterr.ErrChecksumMismatch))
}

func TestVerifySignatureRoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	signer, err := ssh.NewSignerFromKey(priv)
	require.NoError(t, err)

	data := []byte("package bytes")
	sig, err := signer.Sign(rand.Reader, data)
	require.NoError(t, err)

	sshPub, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)

	line := string(ssh.MarshalAuthorizedKey(sshPub))
	trusted, err := ParseTrustedKeys([]string{line})
	require.NoError(t, err)

	v := New()
	require.NoError(t, v.VerifySignature(data, ssh.Marshal(sig), trusted))

	require.Error(t, v.VerifySignature([]byte("tampered"), ssh.Marshal(sig), trusted))
}

func TestParseTrustedKeysSkipsBlankLines(t *testing.T) {
	keys, err := ParseTrustedKeys([]string{"", ""})
	require.NoError(t, err)
	require.Empty(t, keys)
}
