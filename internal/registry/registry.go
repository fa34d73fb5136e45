// Package registry is a thin client over the upstream product's
// department and person-provisioning endpoints, used by the registration
// form.
package registry

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// maxDeptProbe bounds the department id space probed by Departments. The
// upstream has no list endpoint; departments are numbered from 1.
const maxDeptProbe = 29

const deptProbeTimeout = 3 * time.Second

// Client talks to the upstream registration endpoints.
type Client struct {
	deptBaseURL  string
	addPersonURL string
	token        string
	http         *http.Client
}

// NewClient creates a registration client.
func NewClient(deptBaseURL, addPersonURL, token string) *Client {
	return &Client{
		deptBaseURL:  deptBaseURL,
		addPersonURL: addPersonURL,
		token:        token,
		http:         &http.Client{},
	}
}

type deptResponse struct {
	Code int `json:"code"`
	Data struct {
		Code string `json:"code"`
		Name string `json:"name"`
	} `json:"data"`
}

// Departments probes the upstream department endpoints and returns a
// code→name map. Individual probe failures are skipped; an empty map means
// the upstream is unreachable.
func (c *Client) Departments(ctx context.Context) map[string]string {
	departments := make(map[string]string)

	for i := 1; i <= maxDeptProbe; i++ {
		dept, err := c.fetchDepartment(ctx, i)
		if err != nil {
			continue
		}
		departments[dept.Data.Code] = dept.Data.Name
	}
	return departments
}

func (c *Client) fetchDepartment(ctx context.Context, id int) (*deptResponse, error) {
	pctx, cancel := context.WithTimeout(ctx, deptProbeTimeout)
	defer cancel()

	url := fmt.Sprintf("%s%d?access_token=%s", c.deptBaseURL, id, c.token)
	req, err := http.NewRequestWithContext(pctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var dept deptResponse
	if err := json.Unmarshal(body, &dept); err != nil {
		return nil, err
	}
	if dept.Code != 0 {
		return nil, fmt.Errorf("department %d: non-zero application code %d", id, dept.Code)
	}
	return &dept, nil
}

// Registration is a request to provision a new person and badge.
type Registration struct {
	Name       string
	EmployeeNo string
	DeptCode   string
	Plate      string
	Gender     string // "M" or "F"
	PhotoB64   string // base64-encoded person photo
}

// RegisterPerson provisions a person via the upstream API. The badge pin is
// derived from the current time the same way the legacy registration form
// did, which keeps pins compatible with badges already issued.
func (c *Client) RegisterPerson(ctx context.Context, reg Registration) (string, error) {
	pin := newPin(time.Now())

	payload := map[string]any{
		"accEndTime":   "",
		"accLevelIds":  "1",
		"accStartTime": "",
		"birthday":     "",
		"carPlate":     reg.Plate,
		"cardNo":       "",
		"certNumber":   "",
		"certType":     2,
		"deptCode":     reg.DeptCode,
		"email":        "",
		"gender":       reg.Gender,
		"hireDate":     "",
		"isDisabled":   false,
		"isSendMail":   false,
		"lastName":     "",
		"mobilePhone":  "",
		"name":         reg.Name,
		"personPhoto":  reg.PhotoB64,
		"personPwd":    "",
		"pin":          pin,
		"ssn":          reg.EmployeeNo,
		"supplyCards":  "",
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal registration payload: %w", err)
	}

	url := fmt.Sprintf("%s?access_token=%s", c.addPersonURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("registration request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read registration response: %w", err)
	}

	var result struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal registration response: %w", err)
	}
	if result.Code != 0 {
		log.Printf("registry: registration rejected for %q: code %d message %q", reg.Name, result.Code, result.Message)
		return "", fmt.Errorf("upstream rejected registration: code %d", result.Code)
	}

	return pin, nil
}

func newPin(now time.Time) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%f", float64(now.UnixNano())/1e9)))
	return fmt.Sprintf("%x", sum)[:8]
}
