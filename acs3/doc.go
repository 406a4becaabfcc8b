/*
Package acs3 implements the ACS3-HMAC-SHA256 request signature used by Alibaba Cloud style APIs.

The algorithm is briefly described here.

Step 1: make a canonical request string in the format `<METHOD>\n<PATH>\n<QUERY>\n<HEADERS>\n<SIGNED_HEADERS>\n<PAYLOAD_HASH>`.

  - `METHOD`: HTTP method in upper case.
  - `PATH`: the URL path, such as `/ws1/farui/search/case/fulltext`. Used as given.
  - `QUERY`: empty when the request carries no query parameters. Otherwise each key and value is
    percent-encoded, pairs are sorted by encoded key (then value) and joined as `k=v` with `&`.
  - `HEADERS`: every header named `host`, `content-type` or starting with `x-acs-`, as
    `<lowercase-name>:<trimmed-value>\n`, sorted by name. The block keeps its trailing newline, so
    the canonical request has an empty line between headers and signed headers.
  - `SIGNED_HEADERS`: the same names joined with `;`.
  - `PAYLOAD_HASH`: `hex(sha256(BODY))`. An empty body hashes the empty string.

Step 2: string to sign is `ACS3-HMAC-SHA256\n<hex(sha256(CANONICAL_REQUEST))>`.

Step 3: signature is `hex(hmacsha256(SECRET, STRING_TO_SIGN))`. The secret is the HMAC key as is;
there is no date- or region-scoped key derivation.

Step 4: the Authorization header is

	ACS3-HMAC-SHA256 Credential=<ACCESS_KEY_ID>,SignedHeaders=<SIGNED_HEADERS>,Signature=<SIG>

Nonce (`x-acs-signature-nonce`) and timestamp (`x-acs-date`) are ordinary signed headers. They are
filled in by BuildHeaders and SignHTTPRequest, not by Sign, which is a pure function of its input.
*/
package acs3
