package utils

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// certValidity：压测环境的自签证书有效期
const certValidity = 90 * 24 * time.Hour

// EnsureSelfSignedCert：为本地压测 HTTPS 生成 ECDSA P-256 自签证书；证书与私钥都存在时不做任何事。
// hosts 中的 IP 写入 IPAddresses，其余写入 DNSNames；localhost 与回环地址总是包含在内。
func EnsureSelfSignedCert(certPath, keyPath string, hosts ...string) error {
	if fileExists(certPath) && fileExists(keyPath) {
		return nil
	}
	for _, dir := range []string{filepath.Dir(certPath), filepath.Dir(keyPath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return zerr.With(zerr.Wrap(err, "create cert dir"), "dir", dir)
		}
	}
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return zerr.Wrap(err, "generate key")
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return zerr.Wrap(err, "generate serial")
	}
	cn := "route-bench"
	if len(hosts) > 0 && strings.TrimSpace(hosts[0]) != "" {
		cn = strings.TrimSpace(hosts[0])
	}
	now := time.Now()
	tmpl := x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: cn, Organization: []string{"route-bench"}},
		NotBefore:             now.Add(-time.Hour),
		NotAfter:              now.Add(certValidity),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		DNSNames:              []string{"localhost"},
		IPAddresses:           []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
	}
	for _, h := range hosts {
		h = strings.TrimSpace(h)
		if ip := net.ParseIP(h); ip != nil {
			tmpl.IPAddresses = append(tmpl.IPAddresses, ip)
		} else if h != "" && h != "localhost" {
			tmpl.DNSNames = append(tmpl.DNSNames, h)
		}
	}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &priv.PublicKey, priv)
	if err != nil {
		return zerr.Wrap(err, "create certificate")
	}
	keyDER, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		return zerr.Wrap(err, "marshal key")
	}
	if err := writePEM(certPath, "CERTIFICATE", der, 0o644); err != nil {
		return err
	}
	return writePEM(keyPath, "EC PRIVATE KEY", keyDER, 0o600)
}

func writePEM(path, typ string, b []byte, perm os.FileMode) error {
	data := pem.EncodeToMemory(&pem.Block{Type: typ, Bytes: b})
	if err := os.WriteFile(path, data, perm); err != nil {
		return zerr.With(zerr.Wrap(err, "write pem"), "path", path)
	}
	return nil
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
