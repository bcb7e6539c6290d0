package webhook

import (
	"WooWithFeed/internal/database"
	"WooWithFeed/internal/database/model/product"
	"WooWithFeed/internal/database/model/synclog"
	"WooWithFeed/pkg/logging"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/julienschmidt/httprouter"
)

const (
	HEADER_SIGNATURE = "X-WC-Webhook-Signature"
	HEADER_TOPIC     = "X-WC-Webhook-Topic"

	TOPIC_PRODUCT_UPDATED = "product.updated"
)

// productPayload is the slice of the Woo webhook body this handler reads.
type productPayload struct {
	ID     int64  `json:"id"`
	Sku    string `json:"sku"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Handler receives WooCommerce webhooks. It is a third ingestion route into
// the store next to the feed and manual edits: writes go straight in, no
// signature suppression.
type Handler struct {
	db     *sqlx.DB
	secret string
}

func NewHandler(db *sqlx.DB, secret string) *Handler {
	return &Handler{db: db, secret: secret}
}

// HandlerWebhookProduct validates the body signature and applies a recognized
// topic to the store. Unknown topics are acknowledged and dropped.
func (h *Handler) HandlerWebhookProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logger := logging.GetLogger()
	logger.Info("Start HandlerWebhookProduct")
	defer logger.Info("End HandlerWebhookProduct")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Errorf("failed io.ReadAll(r.Body); %v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	defer func() {
		err := r.Body.Close()
		if err != nil {
			logger.Errorf("failed r.Body.Close(); %v", err)
		}
	}()

	if !h.validSignature(body, r.Header.Get(HEADER_SIGNATURE)) {
		logger.Error("webhook signature mismatch")
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	topic := r.Header.Get(HEADER_TOPIC)
	logger.Debugf("Topic: %s", topic)

	switch topic {
	case TOPIC_PRODUCT_UPDATED:
		err = h.applyProductUpdated(body)
		if err != nil {
			logger.Errorf("failed to apply %s; %v", topic, err)
			http.Error(w, "processing failed", http.StatusInternalServerError)
			return
		}
	default:
		logger.Infof("topic ignored: %s", topic)
	}

	_, err = fmt.Fprint(w, "OK")
	if err != nil {
		logger.Errorf("failed to send response; %v", err)
	}
}

// validSignature checks the base64 HMAC-SHA256 of the raw body against the
// header, in constant time.
func (h *Handler) validSignature(body []byte, header string) bool {
	if h.secret == "" || header == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(want), []byte(header))
}

func (h *Handler) applyProductUpdated(body []byte) error {
	logger := logging.GetLogger()

	var payload productPayload
	err := json.Unmarshal(body, &payload)
	if err != nil {
		return err
	}
	if payload.Sku == "" {
		logger.Info("payload without sku ignored")
		return nil
	}

	local, err := product.SelectBySKU(h.db, payload.Sku)
	if err != nil {
		return err
	}
	if local == nil {
		logger.Infof("unknown sku ignored: %s", payload.Sku)
		return nil
	}

	if payload.Name != "" {
		local.Name = payload.Name
	}
	switch payload.Status {
	case "publish":
		local.Status = database.PRODUCT_STATUS_ACTIVE
	case "":
		// absent, keep current
	default:
		local.Status = database.PRODUCT_STATUS_INACTIVE
	}

	err = product.Update(h.db, local)
	if err != nil {
		return err
	}

	err = synclog.Append(h.db, database.SYNCLOG_TYPE_WEBHOOK_TO_DB, database.SYNC_ACTION_UPDATE,
		"product", local.ID, payload, "")
	if err != nil {
		return err
	}

	logger.Infof("webhook applied, sku: %s", payload.Sku)
	return nil
}
