// Package certs creates the self-signed certificates SharePoint app-only
// authentication uses.
package certs

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
)

// Ensure Generator implements CertificateGenerator
var _ driven.CertificateGenerator = (*Generator)(nil)

// DefaultKeyBits is the RSA modulus size.
const DefaultKeyBits = 2048

// Generator creates RSA key pairs and self-signed X.509 certificates.
type Generator struct {
	bits int
	now  func() time.Time
}

// NewGenerator creates a Generator using DefaultKeyBits.
func NewGenerator() *Generator {
	return &Generator{bits: DefaultKeyBits, now: time.Now}
}

// Generate creates a key pair and a certificate valid from now for the
// subject's validity period. The key is PKCS#1 PEM.
func (g *Generator) Generate(subject domain.CertificateSubject) (*domain.Certificate, error) {
	subject = subject.WithDefaults()

	key, err := rsa.GenerateKey(rand.Reader, g.bits)
	if err != nil {
		return nil, fmt.Errorf("generate RSA key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, fmt.Errorf("generate serial: %w", err)
	}

	name := pkix.Name{
		CommonName:   subject.CommonName,
		Country:      []string{subject.Country},
		Province:     []string{subject.State},
		Locality:     []string{subject.Locality},
		Organization: []string{subject.Organization},
	}

	notBefore := g.now().UTC().Truncate(time.Second)
	notAfter := notBefore.AddDate(0, 0, subject.ValidityDays)

	tmpl := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               name,
		Issuer:                name,
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		SubjectKeyId:          subjectKeyID(&key.PublicKey),
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("create certificate: %w", err)
	}

	return &domain.Certificate{
		CertPEM:   pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
		KeyPEM:    pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}),
		NotBefore: notBefore,
		NotAfter:  notAfter,
	}, nil
}

// Parse reads the validity window of a PEM encoded certificate.
func (g *Generator) Parse(certPEM []byte) (*domain.Certificate, error) {
	block, _ := pem.Decode(certPEM)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, errors.New("no PEM certificate block found")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse certificate: %w", err)
	}
	return &domain.Certificate{
		CertPEM:   certPEM,
		NotBefore: cert.NotBefore.UTC(),
		NotAfter:  cert.NotAfter.UTC(),
	}, nil
}

func subjectKeyID(pub *rsa.PublicKey) []byte {
	sum := sha256.Sum256(x509.MarshalPKCS1PublicKey(pub))
	return sum[:20]
}
