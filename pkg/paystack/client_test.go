package paystack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyWebhookSignature(t *testing.T) {
	client := NewClient("https://api.paystack.co", "sk_test_abc123")
	body := []byte(`{"event":"charge.success","data":{"reference":"SPZ-42","status":"success"}}`)
	signature := "5f3c8372fd91553725298e458cfdfc4c0a82ce9b6e390b5b317cdcc225687d5b388e272741d5250eef808c2d748581097a7de7095fac550acbe4194b0d285821"

	assert.True(t, client.VerifyWebhookSignature(body, signature))
}

func TestVerifyWebhookSignatureRejects(t *testing.T) {
	client := NewClient("https://api.paystack.co", "sk_test_abc123")
	body := []byte(`{"event":"charge.success"}`)

	assert.False(t, client.VerifyWebhookSignature(body, ""))
	assert.False(t, client.VerifyWebhookSignature(body, "deadbeef"))

	// Same body signed with a different secret must not verify.
	other := NewClient("https://api.paystack.co", "sk_test_other")
	valid := "5f3c8372fd91553725298e458cfdfc4c0a82ce9b6e390b5b317cdcc225687d5b388e272741d5250eef808c2d748581097a7de7095fac550acbe4194b0d285821"
	assert.False(t, other.VerifyWebhookSignature(body, valid))
}
