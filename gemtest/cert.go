/*
Copyright 2026 Dima Krasner

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package gemtest

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/hex"
	"encoding/pem"
	"math/big"
	"time"
)

// GenerateCertificate generates a self-signed certificate. The key is derived from name, so
// the same name always produces the same certificate.
func GenerateCertificate(name string) (tls.Certificate, error) {
	certPEM, keyPEM, err := GeneratePEM(name)
	if err != nil {
		return tls.Certificate{}, err
	}

	return tls.X509KeyPair(certPEM, keyPEM)
}

// GeneratePEM is like [GenerateCertificate] but returns the PEM-encoded certificate and key.
func GeneratePEM(name string) ([]byte, []byte, error) {
	hash := sha256.Sum256([]byte(name))

	privateKey := ed25519.NewKeyFromSeed(hash[:])

	template := x509.Certificate{
		Subject: pkix.Name{
			CommonName: name,
		},
		DNSNames:     []string{name},
		SerialNumber: new(big.Int),
		NotBefore:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		NotAfter:     time.Date(2500, 1, 1, 0, 0, 0, 0, time.UTC),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
	}

	certDER, err := x509.CreateCertificate(
		rand.Reader,
		&template,
		&template,
		privateKey.Public(),
		privateKey,
	)
	if err != nil {
		return nil, nil, err
	}

	var certPEM bytes.Buffer
	if err := pem.Encode(&certPEM, &pem.Block{Type: "CERTIFICATE", Bytes: certDER}); err != nil {
		return nil, nil, err
	}

	keyDER, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return nil, nil, err
	}

	var keyPEM bytes.Buffer
	if err := pem.Encode(&keyPEM, &pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}); err != nil {
		return nil, nil, err
	}

	return certPEM.Bytes(), keyPEM.Bytes(), nil
}

// Fingerprint returns the hex-encoded SHA-256 hash of a certificate.
func Fingerprint(cert tls.Certificate) string {
	hash := sha256.Sum256(cert.Certificate[0])
	return hex.EncodeToString(hash[:])
}
