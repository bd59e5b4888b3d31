package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/ArtemKoshovyi/contacts-manager/pkg/model"
)

const serverPort = 8080

// postCounter makes every created contact unique, since phone numbers and
// emails carry unique constraints.
var postCounter int64

// Usage example on the command line:
// > go run main.go
func main() {
	fmt.Println()
	fmt.Println("  Elements      POST       PUT       GET    DELETE ")
	fmt.Println("---------------------------------------------------")
	sizes := []int{1000, 5000, 10000, 50000, 100000}
	for _, loops := range sizes {
		firstID, _ := sendPostRequest()
		fmt.Printf("%10d", loops)
		{
			// POST requests
			var duration int64
			for i := 0; i < loops; i++ {
				_, d := sendPostRequest()
				duration += d
			}
			fmt.Printf("%10d", duration/int64(loops*1000))
		}
		{
			// PUT requests
			f := func(id int64) int64 {
				return sendPutGetDeleteRequest(id, http.MethodPut, bytes.NewReader(putBody(id)))
			}
			callInLoop(firstID, loops, f)
		}
		{
			// GET requests
			f := func(id int64) int64 {
				return sendPutGetDeleteRequest(id, http.MethodGet, nil)
			}
			callInLoop(firstID, loops, f)
		}
		{
			// DELETE requests
			f := func(id int64) int64 {
				return sendPutGetDeleteRequest(id, http.MethodDelete, nil)
			}
			callInLoop(firstID, loops, f)
		}
		sendPutGetDeleteRequest(firstID, http.MethodDelete, nil)
		fmt.Println()
	}
}

func callInLoop(firstID int64, loops int, f func(id int64) int64) {
	ids := createRandomSliceWithIDs(firstID+1, loops)
	var duration int64
	for _, id := range ids {
		d := f(id)
		duration += d
	}
	fmt.Printf("%10d", duration/int64(loops*1000))
}

func createRandomSliceWithIDs(firstID int64, loops int) []int64 {
	ids := make([]int64, 0, loops)
	for i := 0; i < loops; i++ {
		ids = append(ids, firstID+int64(i))
	}
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids
}

func postBody() []byte {
	postCounter++
	contact := model.Contact{
		FirstName: "Marcus",
		LastName:  "Antonius",
		Phone:     fmt.Sprintf("+3999977%07d", postCounter),
		Email:     fmt.Sprintf("marcus.antonius%d@example.com", postCounter),
		City:      "Roma",
		Status:    "New",
	}
	body, _ := json.Marshal(contact)
	return body
}

func putBody(id int64) []byte {
	contact := model.Contact{
		FirstName: "Marcus",
		LastName:  "Aurelius",
		Phone:     fmt.Sprintf("+3988866%07d", id),
		Email:     fmt.Sprintf("marcus.aurelius%d@example.com", id),
		City:      "Roma",
		Status:    "New",
	}
	body, _ := json.Marshal(contact)
	return body
}

func sendPostRequest() (int64, int64) {
	requestURL := fmt.Sprintf("http://localhost:%d/api/contacts/", serverPort)
	resBody, duration := sendRequest(http.MethodPost, requestURL, bytes.NewReader(postBody()))
	var contact model.Contact
	err := json.Unmarshal(resBody, &contact)
	if err != nil {
		fmt.Println("could not unmarshal JSON", err)
		panic(err)
	}
	return contact.Id, duration
}

func sendPutGetDeleteRequest(id int64, method string, bodyReader io.Reader) int64 {
	requestURL := fmt.Sprintf("http://localhost:%d/api/contacts/%d/", serverPort, id)
	_, duration := sendRequest(method, requestURL, bodyReader)
	return duration
}

func sendRequest(method string, requestURL string, bodyReader io.Reader) ([]byte, int64) {
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")
	before := time.Now().UnixNano()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Println("could not read response body", err)
		panic(err)
	}
	after := time.Now().UnixNano()
	return resBody, after - before
}
