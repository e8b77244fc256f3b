package customers_test

import (
	"encoding/json"
	"testing"

	"github.com/iceinventory/partner-core/customers"
	"github.com/stretchr/testify/require"
)

func TestPhoneListAcceptsSingleString(t *testing.T) {
	var c customers.Customer
	err := json.Unmarshal([]byte(`{"_id":"c1","name":"Corner Shop","phone":"5550101"}`), &c)
	require.NoError(t, err)
	require.Equal(t, customers.PhoneList{"5550101"}, c.Phone)
	require.Equal(t, "5550101", c.Phone.Primary())
}

func TestPhoneListAcceptsArray(t *testing.T) {
	var c customers.Customer
	err := json.Unmarshal([]byte(`{"_id":"c1","phone":["5550101","5550102"]}`), &c)
	require.NoError(t, err)
	require.Len(t, c.Phone, 2)
	require.Equal(t, "5550101", c.Phone.Primary())
}

func TestPhoneListEmptyString(t *testing.T) {
	var c customers.Customer
	err := json.Unmarshal([]byte(`{"_id":"c1","phone":""}`), &c)
	require.NoError(t, err)
	require.Empty(t, c.Phone)
	require.Empty(t, c.Phone.Primary())
}

func TestPhoneListRejectsNonString(t *testing.T) {
	var c customers.Customer
	err := json.Unmarshal([]byte(`{"_id":"c1","phone":5550101}`), &c)
	require.Error(t, err)
}

func TestPhoneListMarshalRoundTrip(t *testing.T) {
	single, err := json.Marshal(customers.PhoneList{"5550101"})
	require.NoError(t, err)
	require.JSONEq(t, `"5550101"`, string(single))

	many, err := json.Marshal(customers.PhoneList{"5550101", "5550102"})
	require.NoError(t, err)
	require.JSONEq(t, `["5550101","5550102"]`, string(many))
}
