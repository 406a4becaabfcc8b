package acs3_test

import (
	"fmt"
	"time"

	"github.com/jayantasamaddar/go-acssigner/acs3"
	"github.com/jayantasamaddar/go-acssigner/credentials"
)

func ExampleACS3_BuildHeaders() {
	signer, err := acs3.NewACS3Signer(
		credentials.Credentials{AccessKeyID: "testid", AccessKeySecret: "testsecret"},
		// Drop these two options in real use: the defaults are the wall clock and a random UUID.
		acs3.WithClock(func() time.Time { return time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC) }),
		acs3.WithNonceFunc(func() string { return "3d1f2a0c-7b7e-4c4b-9a6e-2f1f0e9d8c7b" }),
	)
	if err != nil {
		panic(err)
	}

	headers, err := signer.BuildHeaders(acs3.HeaderParams{
		Host:    "farui.cn-beijing.aliyuncs.com",
		Path:    "/ws1/farui/search/case/fulltext",
		Action:  "RunSearchCaseFullText",
		Version: "2024-06-28",
		Body:    []byte(`{"workspaceId":"ws1"}`),
	})
	if err != nil {
		panic(err)
	}
	fmt.Println(headers["Authorization"])

	// Output:
	// ACS3-HMAC-SHA256 Credential=testid,SignedHeaders=content-type;host;x-acs-action;x-acs-date;x-acs-signature-nonce;x-acs-version,Signature=dda9ef2c00ebf847556379d62a7545cf8152d06d5b7b823071b46382c3c5b724
}
