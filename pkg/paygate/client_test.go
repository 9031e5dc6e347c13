package paygate

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func notifyForm() url.Values {
	form := url.Values{}
	form.Set("PAYGATE_ID", "10011013800")
	form.Set("PAY_REQUEST_ID", "PAY_REQ_1")
	form.Set("REFERENCE", "SPZ-42")
	form.Set("TRANSACTION_STATUS", StatusApproved)
	return form
}

func TestVerifyNotifyChecksum(t *testing.T) {
	client := NewClient("https://secure.paygate.co.za/payweb3", "10011013800", "secret")

	form := notifyForm()
	form.Set("CHECKSUM", "497aa678842bb962552a9ceb9f5a75f7")

	assert.True(t, client.VerifyNotifyChecksum(form, NotifyFields))
}

func TestVerifyNotifyChecksumRejects(t *testing.T) {
	client := NewClient("https://secure.paygate.co.za/payweb3", "10011013800", "secret")

	t.Run("missing checksum", func(t *testing.T) {
		assert.False(t, client.VerifyNotifyChecksum(notifyForm(), NotifyFields))
	})

	t.Run("tampered field", func(t *testing.T) {
		form := notifyForm()
		form.Set("CHECKSUM", "497aa678842bb962552a9ceb9f5a75f7")
		form.Set("TRANSACTION_STATUS", StatusDeclined)
		assert.False(t, client.VerifyNotifyChecksum(form, NotifyFields))
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewClient("https://secure.paygate.co.za/payweb3", "10011013800", "othersecret")
		form := notifyForm()
		form.Set("CHECKSUM", "497aa678842bb962552a9ceb9f5a75f7")
		assert.False(t, other.VerifyNotifyChecksum(form, NotifyFields))
	})
}
