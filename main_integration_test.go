package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"syscall"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/models"
)

const (
	testAppBinary      = "./offer_backend_test_app"
	testAppPort        = "8089"
	testServiceApiPort = "8091"
	testDbName         = "sandevex_integration_test"
	testAppURL         = "http://localhost:" + testAppPort
	testServiceApiURL  = "http://localhost:" + testServiceApiPort
	startupTimeout     = 15 * time.Second
	pingEndpoint       = testAppURL + "/ping"
)

var (
	seededCandidate   models.Candidate
	mongoClient       *mongo.Client
	integrationActive bool
)

// TestMain builds the binary, seeds a candidate and runs the server with the
// Redis mock email sender so tests can fetch sent mail back via the service
// API. Everything is skipped when MONGO_URI is not configured.
func TestMain(m *testing.M) {
	godotenv.Load()
	if os.Getenv("MONGO_URI") == "" {
		log.Println("Integration tests skipped: MONGO_URI not set")
		os.Exit(m.Run())
	}
	integrationActive = true

	defer func() {
		_ = os.Remove(testAppBinary)
	}()

	log.Println("Integration Test Setup: Building application...")
	buildCmd := exec.Command("go", "build", "-o", testAppBinary, ".")
	buildOutput, err := buildCmd.CombinedOutput()
	if err != nil {
		log.Printf("Failed to build application: %v\nOutput:\n%s", err, string(buildOutput))
		os.Exit(1)
	}

	if err := seedTestData(); err != nil {
		log.Printf("Failed to seed test data: %v", err)
		os.Exit(1)
	}
	defer cleanupTestData()

	appCmd := exec.Command(testAppBinary, "-m", "all")
	appCmd.Env = append(os.Environ(),
		"API_PORT="+testAppPort,
		"SERVICE_API_PORT="+testServiceApiPort,
		"MONGO_DB_NAME="+testDbName,
		"GIN_MODE=release",
		"MOCK_SERVICES=true",
		"RATE_LIMIT_SOFT_BUCKET_SIZE=50",
		"RATE_LIMIT_SOFT_REFILL_RATE=50",
		"RATE_LIMIT_HARD_BUCKET_SIZE=100",
		"RATE_LIMIT_HARD_REFILL_RATE=100",
		"SMTP_FROM_ADDRESS=test@example.com",
	)
	appCmd.Stderr = os.Stderr
	appCmd.Stdout = os.Stdout

	log.Println("Integration Test Setup: Starting application process...")
	if err := appCmd.Start(); err != nil {
		log.Printf("Failed to start application process: %v", err)
		os.Exit(1)
	}

	defer func() {
		log.Println("Integration Test Teardown: Shutting down application...")
		if processErr := appCmd.Process.Signal(syscall.SIGTERM); processErr != nil {
			_ = appCmd.Process.Kill()
		} else {
			_, _ = appCmd.Process.Wait()
		}
	}()

	// Wait for readiness by polling /ping
	startTime := time.Now()
	ready := false
	for time.Since(startTime) < startupTimeout {
		resp, err := http.Get(pingEndpoint)
		if err == nil {
			bodyBytes, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK && string(bodyBytes) == "pong" {
				ready = true
				break
			}
		}
		time.Sleep(200 * time.Millisecond)
	}
	if !ready {
		log.Printf("Application failed to start within %v", startupTimeout)
		os.Exit(1)
	}

	m.Run()
}

func seedTestData() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	mongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(os.Getenv("MONGO_URI")))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	db := mongoClient.Database(testDbName)
	for _, coll := range []string{"students", "appointments", "offers"} {
		_ = db.Collection(coll).Drop(ctx)
	}

	now := time.Now().UTC()
	seededCandidate = models.Candidate{
		ID:              primitive.NewObjectID(),
		FullName:        "Rashmi B R",
		Email:           fmt.Sprintf("candidate_%d@example.com", now.UnixNano()),
		Mobile:          "9876543210",
		CollegeName:     "RV College of Engineering",
		PreferredDomain: "Backend Development",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	_, err = db.Collection("students").InsertOne(ctx, seededCandidate)
	if err != nil {
		return fmt.Errorf("seed candidate: %w", err)
	}
	return nil
}

func cleanupTestData() {
	if mongoClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db := mongoClient.Database(testDbName)
	for _, coll := range []string{"students", "appointments", "offers"} {
		_ = db.Collection(coll).Drop(ctx)
	}
	_ = mongoClient.Disconnect(ctx)
}

func requireIntegration(t *testing.T) {
	t.Helper()
	if !integrationActive {
		t.Skip("MONGO_URI not set")
	}
}

func postJSON(t *testing.T, url string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err, "Request to %s should not fail", url)
	defer resp.Body.Close()
	bodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var respBody map[string]interface{}
	if len(bodyBytes) > 0 {
		require.NoError(t, json.Unmarshal(bodyBytes, &respBody), "body: %s", string(bodyBytes))
	}
	return resp, respBody
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err, "Request to %s should not fail", url)
	defer resp.Body.Close()
	bodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var respBody map[string]interface{}
	require.NoError(t, json.Unmarshal(bodyBytes, &respBody), "body: %s", string(bodyBytes))
	return resp, respBody
}

// getEmailFromServiceAPI fetches a mock email stored in Redis by the mock
// sender, addressed by recipient and message kind.
func getEmailFromServiceAPI(t *testing.T, kind, emailAddr string) map[string]interface{} {
	t.Helper()
	resp, respBody := postJSON(t, testServiceApiURL+"/api", map[string]interface{}{
		"method":    "getTestEmail",
		"arguments": []string{kind, emailAddr},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "getTestEmail(%s, %s): %v", kind, emailAddr, respBody)
	require.Equal(t, true, respBody["success"])
	data, ok := respBody["data"].(map[string]interface{})
	require.True(t, ok, "expected email data object, got %v", respBody["data"])
	return data
}

func futureBookableDate(t *testing.T) string {
	t.Helper()
	resp, respBody := getJSON(t, testAppURL+"/slots/dates")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	dates, ok := respBody["dates"].([]interface{})
	require.True(t, ok)
	if len(dates) == 0 {
		t.Skip("booking window is closed today (past the 21st)")
	}
	// Last entry avoids same-day cutoff interference.
	return dates[len(dates)-1].(string)
}

func TestIntegration_Ping(t *testing.T) {
	requireIntegration(t)

	resp, err := http.Get(pingEndpoint)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	bodyBytes, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Equal(t, "pong", string(bodyBytes))
}

func TestIntegration_BookAppointmentFlow(t *testing.T) {
	requireIntegration(t)

	date := futureBookableDate(t)
	bookerEmail := fmt.Sprintf("booker_%d@example.com", time.Now().UnixNano())

	resp, respBody := postJSON(t, testAppURL+"/appointments", map[string]string{
		"candidateId": seededCandidate.ID.Hex(),
		"name":        seededCandidate.FullName,
		"email":       bookerEmail,
		"phone":       "9876543210",
		"position":    "Backend Intern",
		"date":        date,
		"slot":        "2-3",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "booking failed: %v", respBody)
	assert.Equal(t, "Appointment booked successfully", respBody["message"])

	// Both notification emails went out through the mock sender.
	confirmation := getEmailFromServiceAPI(t, "booking", bookerEmail)
	assert.Contains(t, confirmation["body"], "2:00 PM - 3:00 PM")
	hrNotice := getEmailFromServiceAPI(t, "hr-notice", "hr@sandevex.com")
	assert.Contains(t, hrNotice["body"], bookerEmail)
	assert.Contains(t, hrNotice["body"], seededCandidate.CollegeName)

	// The booking shows up in the per-date availability counts.
	resp, avail := getJSON(t, testAppURL+"/slots?date="+date)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.GreaterOrEqual(t, avail["2-3"].(float64), float64(1))

	// Rebooking the same slot for the same email is rejected.
	resp, respBody = postJSON(t, testAppURL+"/appointments", map[string]string{
		"candidateId": seededCandidate.ID.Hex(),
		"name":        seededCandidate.FullName,
		"email":       bookerEmail,
		"phone":       "9876543210",
		"position":    "Backend Intern",
		"date":        date,
		"slot":        "2-3",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, respBody["message"], "already booked")
}

func TestIntegration_OfferLifecycle(t *testing.T) {
	requireIntegration(t)

	// A fresh candidate so this flow does not collide with other tests.
	ctx := context.Background()
	db := mongoClient.Database(testDbName)
	now := time.Now().UTC()
	candidate := models.Candidate{
		ID:        primitive.NewObjectID(),
		FullName:  "Offer Candidate",
		Email:     fmt.Sprintf("offeree_%d@example.com", now.UnixNano()),
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := db.Collection("students").InsertOne(ctx, candidate)
	require.NoError(t, err)

	// Send the offer.
	resp, respBody := postJSON(t, testAppURL+"/offers/send-offer", map[string]interface{}{
		"candidateId": candidate.ID.Hex(),
		"emailData": map[string]string{
			"to":      candidate.Email,
			"subject": "Offer of Internship at Sandevex",
			"message": "We are pleased to offer you the Backend Intern position.",
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "send-offer failed: %v", respBody)

	offerEmail := getEmailFromServiceAPI(t, "offer", candidate.Email)
	assert.Contains(t, offerEmail["body"], "Backend Intern")

	// Status is pending before any response.
	resp, respBody = getJSON(t, testAppURL+"/offers/"+candidate.ID.Hex()+"/status")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pending", respBody["status"])

	// Accept by email.
	resp, respBody = postJSON(t, testAppURL+"/offers/respond", map[string]string{
		"email":  candidate.Email,
		"status": "accept",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "respond failed: %v", respBody)
	assert.Equal(t, "accepted", respBody["status"])

	confirmation := getEmailFromServiceAPI(t, "offer-response", candidate.Email)
	assert.Contains(t, confirmation["subject"], "accepted")

	// A second response is rejected.
	resp, respBody = postJSON(t, testAppURL+"/offers/respond", map[string]string{
		"email":  candidate.Email,
		"status": "decline",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, respBody["message"], "already been processed")

	// check-status reflects the terminal state and the candidate record is
	// stamped.
	resp, respBody = getJSON(t, testAppURL+"/offers/check-status?email="+candidate.Email)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	offerBlock := respBody["offer"].(map[string]interface{})
	assert.Equal(t, "accepted", offerBlock["status"])

	var stored models.Candidate
	require.NoError(t, db.Collection("students").FindOne(ctx, bson.M{"_id": candidate.ID}).Decode(&stored))
	assert.Equal(t, models.CandidateStatusOfferAccepted, stored.Status)

	// A duplicate offer for the same candidate is rejected.
	resp, respBody = postJSON(t, testAppURL+"/offers/create-record", map[string]string{
		"candidateId": candidate.ID.Hex(),
		"email":       candidate.Email,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, respBody["message"], "already exists")
}

func TestIntegration_SlotDates(t *testing.T) {
	requireIntegration(t)

	resp, respBody := getJSON(t, testAppURL+"/slots/dates")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	dates, ok := respBody["dates"].([]interface{})
	require.True(t, ok)
	// Every listed date is within the current month up to the 21st.
	nowUTC := time.Now()
	for _, d := range dates {
		parsed, err := time.Parse("2006-01-02", d.(string))
		require.NoError(t, err)
		assert.Equal(t, nowUTC.Year(), parsed.Year())
		assert.Equal(t, nowUTC.Month(), parsed.Month())
		assert.LessOrEqual(t, parsed.Day(), 21)
	}
}
