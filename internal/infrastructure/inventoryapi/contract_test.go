//go:build contract

package inventoryapi_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/pact-foundation/pact-go/v2/consumer"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/tarima-dispatch/internal/domain"
	"github.com/wms-platform/tarima-dispatch/internal/infrastructure/inventoryapi"
	"github.com/wms-platform/tarima-dispatch/pkg/logging"
)

const (
	consumerName = "tarima-dispatch"
	providerName = "inventory-service"
	pactDir      = "../../../contracts/pacts"
)

func newPact(t *testing.T) *consumer.V4HTTPMockProvider {
	t.Helper()

	absPath, err := filepath.Abs(pactDir)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(absPath, 0755))

	mockProvider, err := consumer.NewV4Pact(consumer.MockHTTPProviderConfig{
		Consumer: consumerName,
		Provider: providerName,
		PactDir:  absPath,
	})
	require.NoError(t, err)
	return mockProvider
}

func clientFor(config consumer.MockServerConfig) *inventoryapi.Client {
	logConfig := logging.DefaultConfig("inventoryapi-contract")
	logConfig.Output = io.Discard
	return inventoryapi.NewClient(
		inventoryapi.DefaultConfig(fmt.Sprintf("http://%s:%d", config.Host, config.Port)),
		nil,
		logging.New(logConfig),
	)
}

func TestInventoryServiceConsumer(t *testing.T) {
	t.Run("FetchInventory", func(t *testing.T) {
		err := newPact(t).
			AddInteraction().
			Given("pallets exist in the warehouse").
			UponReceiving("a request for the inventory snapshot").
			WithRequest(http.MethodGet, inventoryapi.EndpointPallets, func(b *consumer.V4RequestBuilder) {
				b.Header("Accept", matchers.String("application/json"))
			}).
			WillRespondWith(http.StatusOK, func(b *consumer.V4ResponseBuilder) {
				b.Header("Content-Type", matchers.String("application/json"))
				b.JSONBody(matchers.EachLike(map[string]interface{}{
					"rfidId":             matchers.Integer(101),
					"productKey":         matchers.String("PK-7"),
					"poNumber":           matchers.String("PO-100"),
					"itemNumber":         matchers.String("ITEM-9"),
					"unitOfMeasure":      matchers.String("MIL"),
					"cases":              matchers.Integer(40),
					"unitsPerCase":       matchers.Integer(12),
					"grossWeight":        matchers.Decimal(850.5),
					"netWeight":          matchers.Decimal(820.25),
					"sapOrder":           matchers.String("SAP-1"),
					"assignedToDelivery": matchers.Like(false),
				}, 1))
			}).
			ExecuteTest(t, func(config consumer.MockServerConfig) error {
				pallets, err := clientFor(config).FetchInventory(context.Background())
				if err != nil {
					return err
				}

				require.Len(t, pallets, 1)
				assert.Equal(t, int64(101), pallets[0].RFIDID)
				assert.Equal(t, 850.5, pallets[0].GrossWeight)
				return nil
			})

		require.NoError(t, err)
	})

	t.Run("MarkAssigned", func(t *testing.T) {
		err := newPact(t).
			AddInteraction().
			Given("pallets 101 and 102 are unassigned").
			UponReceiving("a request to assign pallets to a delivery").
			WithRequest(http.MethodPut, inventoryapi.EndpointAssign, func(b *consumer.V4RequestBuilder) {
				b.Header("Content-Type", matchers.String("application/json"))
				b.JSONBody(map[string]interface{}{
					"rfidIds":            matchers.EachLike(matchers.Integer(101), 1),
					"assignedToDelivery": true,
				})
			}).
			WillRespondWith(http.StatusNoContent).
			ExecuteTest(t, func(config consumer.MockServerConfig) error {
				return clientFor(config).MarkAssigned(context.Background(), []int64{101, 102})
			})

		require.NoError(t, err)
	})

	t.Run("FetchNextReleaseSequence", func(t *testing.T) {
		err := newPact(t).
			AddInteraction().
			Given("six releases were created today").
			UponReceiving("a request for the next release sequence").
			WithRequest(http.MethodGet, inventoryapi.EndpointNextSequence, func(b *consumer.V4RequestBuilder) {
				b.Header("Accept", matchers.String("application/json"))
			}).
			WillRespondWith(http.StatusOK, func(b *consumer.V4ResponseBuilder) {
				b.Header("Content-Type", matchers.String("application/json"))
				b.JSONBody(map[string]interface{}{
					"nextSequence": matchers.Integer(7),
				})
			}).
			ExecuteTest(t, func(config consumer.MockServerConfig) error {
				sequence, err := clientFor(config).FetchNextReleaseSequence(context.Background())
				if err != nil {
					return err
				}

				assert.Equal(t, 7, sequence)
				return nil
			})

		require.NoError(t, err)
	})

	t.Run("CreateRelease", func(t *testing.T) {
		payload := &domain.ReleasePayload{
			Name:        "LOAD_2026-10-15_7",
			Description: "Morning load",
			CreatedBy:   "operator",
			ShipmentItems: []domain.ShipmentLineItem{{
				Company:                1,
				ShipDate:               "2026-10-15",
				PONumber:               "PO-100",
				SAP:                    "SAP-1",
				ProductKey:             "PK-7",
				CustomerItemNumber:     "ITEM-9",
				QuantityAlreadyShipped: domain.QuantityAlreadyShippedNone,
				Pallets:                2,
				CasesPerPallet:         40,
				UnitsPerCase:           12,
				GrossWeight:            1701,
				NetWeight:              1640.5,
				ItemType:               domain.ItemTypeFinishedGood,
				SalesCSRNames:          domain.DefaultSalesCSRNames,
				Traceabilities:         `["L1","L2"]`,
			}},
		}

		err := newPact(t).
			AddInteraction().
			Given("the release service accepts new releases").
			UponReceiving("a request to create a release").
			WithRequest(http.MethodPost, inventoryapi.EndpointReleases, func(b *consumer.V4RequestBuilder) {
				b.Header("Content-Type", matchers.String("application/json"))
				b.JSONBody(map[string]interface{}{
					"name":        matchers.Regex(payload.Name, `^LOAD_\d{4}-\d{2}-\d{2}_\d+$`),
					"description": matchers.String(payload.Description),
					"notes":       matchers.String(""),
					"createdBy":   matchers.String(payload.CreatedBy),
					"shipmentItems": matchers.EachLike(map[string]interface{}{
						"company":                matchers.Integer(1),
						"shipDate":               matchers.Regex("2026-10-15", `^\d{4}-\d{2}-\d{2}$`),
						"poNumber":               matchers.String("PO-100"),
						"sap":                    matchers.String("SAP-1"),
						"productKey":             matchers.String("PK-7"),
						"customerItemNumber":     matchers.String("ITEM-9"),
						"itemDescription":        matchers.String(""),
						"quantityAlreadyShipped": "0",
						"pallets":                matchers.Integer(2),
						"casesPerPallet":         matchers.Integer(40),
						"unitsPerCase":           matchers.Integer(12),
						"grossWeight":            matchers.Like(1701),
						"netWeight":              matchers.Decimal(1640.5),
						"itemType":               domain.ItemTypeFinishedGood,
						"salesCSRNames":          matchers.String(domain.DefaultSalesCSRNames),
						"traceabilities":         matchers.String(`["L1","L2"]`),
						"unitPrice":              matchers.Like(0),
					}, 1),
				})
			}).
			WillRespondWith(http.StatusCreated, func(b *consumer.V4ResponseBuilder) {
				b.Header("Content-Type", matchers.String("application/json"))
				b.JSONBody(map[string]interface{}{
					"id":   matchers.Integer(55),
					"name": matchers.String(payload.Name),
				})
			}).
			ExecuteTest(t, func(config consumer.MockServerConfig) error {
				ref, err := clientFor(config).CreateRelease(context.Background(), payload)
				if err != nil {
					return err
				}

				assert.Equal(t, int64(55), ref.ID)
				assert.Equal(t, payload.Name, ref.Name)
				return nil
			})

		require.NoError(t, err)
	})
}
