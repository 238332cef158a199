package jwk_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"testing"

	"github.com/axent-pl/googleidtoken/jwk"
)

func TestParseSet(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantLen  int
		wantErr  bool
		wantKids []string
	}{
		{
			name: "single RSA key",
			doc: `{"keys":[
				{"kty":"RSA","kid":"a","alg":"RS256","n":"4mGTm7XBEsGGkZEWDSKlLp4tRU6R6WhVnm9Tk1mDnSvMTFl9TFLlc-e_Ue8PdSCBKkEc33jOW7H6-TMLN0VZOLG1gbHuj_JenGGIE7srSvc9dDh67P6cTPbfo_7qqfuisnKDGwH7NUyUIntpBY1SSQLgeyYhUnMFXMxDfxHN8oZrcNHYZXPmCYd4BUlCdsOkHdzZ6phDP4B_6stmPqcFHX87YvNaHvk7UNL1mydLpiCXRv0ECmfE_0TQKPjUNUlD7ttfuSUYmvY1XBgffNGU3GEoTjOPu05fnjdeSTuayxKYUY0gCDLlO8lpPqpwLBBhOzE8Jf2aysswBDcKZ_hetQ","e":"AQAB"}
			]}`,
			wantLen:  1,
			wantKids: []string{"a"},
		},
		{
			name: "EC key",
			doc: `{"keys":[
				{"kty":"EC","kid":"ec1","crv":"P-256","alg":"ES256","x":"mDOfOROjwltDurdAEieXqnohButUXxyavXoF0mmtFos","y":"B2rEvk135QzNVWMNj-jqOGa0IftuovnGztAkvBtGaq8"}
			]}`,
			wantLen:  1,
			wantKids: []string{"ec1"},
		},
		{
			name: "malformed entries are skipped",
			doc: `{"keys":[
				{"kty":"RSA","kid":"broken","n":"!!!","e":"AQAB"},
				{"kty":"OKP","kid":"unsupported"},
				{"kty":"RSA","n":"AQAB","e":"AQAB"},
				{"kty":"EC","kid":"ec1","crv":"P-256","x":"mDOfOROjwltDurdAEieXqnohButUXxyavXoF0mmtFos","y":"B2rEvk135QzNVWMNj-jqOGa0IftuovnGztAkvBtGaq8"}
			]}`,
			wantLen:  1,
			wantKids: []string{"ec1"},
		},
		{
			name:    "no usable keys",
			doc:     `{"keys":[{"kty":"RSA","kid":"broken","n":"!!!","e":"AQAB"}]}`,
			wantErr: true,
		},
		{
			name:    "empty document",
			doc:     `{"keys":[]}`,
			wantErr: true,
		},
		{
			name:    "not json",
			doc:     `certainly not json`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := jwk.ParseSet([]byte(tt.doc))
			if tt.wantErr {
				if err == nil {
					t.Fatal("ParseSet() succeeded unexpectedly")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSet() failed: %v", err)
			}
			if set.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", set.Len(), tt.wantLen)
			}
			for _, kid := range tt.wantKids {
				if _, ok := set.Key(kid); !ok {
					t.Errorf("Key(%q) not found", kid)
				}
			}
			if _, ok := set.Key("no-such-kid"); ok {
				t.Error("Key(no-such-kid) found unexpectedly")
			}
		})
	}
}

func TestFromPublicKey_RSARoundTrip(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	k, err := jwk.FromPublicKey("rsa-kid", "RS256", &rsaKey.PublicKey)
	if err != nil {
		t.Fatalf("FromPublicKey() failed: %v", err)
	}

	doc, err := json.Marshal(struct {
		Keys []jwk.Key `json:"keys"`
	}{Keys: []jwk.Key{k}})
	if err != nil {
		t.Fatal(err)
	}
	set, err := jwk.ParseSet(doc)
	if err != nil {
		t.Fatalf("ParseSet() failed: %v", err)
	}
	got, ok := set.Key("rsa-kid")
	if !ok {
		t.Fatal("key not found after round trip")
	}
	pub, err := got.PublicKey()
	if err != nil {
		t.Fatalf("PublicKey() failed: %v", err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		t.Fatalf("PublicKey() = %T, want *rsa.PublicKey", pub)
	}
	if !rsaPub.Equal(&rsaKey.PublicKey) {
		t.Error("reconstructed RSA key differs from original")
	}
}

func TestFromPublicKey_ECRoundTrip(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	k, err := jwk.FromPublicKey("ec-kid", "ES256", &ecKey.PublicKey)
	if err != nil {
		t.Fatalf("FromPublicKey() failed: %v", err)
	}
	pub, err := k.PublicKey()
	if err != nil {
		t.Fatalf("PublicKey() failed: %v", err)
	}
	ecPub, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		t.Fatalf("PublicKey() = %T, want *ecdsa.PublicKey", pub)
	}
	if !ecPub.Equal(&ecKey.PublicKey) {
		t.Error("reconstructed EC key differs from original")
	}
}
