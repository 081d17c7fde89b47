/*
 * © 2023 wenzdey
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package httpclient

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"os"
	"time"

	"github.com/wenzdey/checkov-vscode/application/config"
)

// NewHTTPClient builds the client used for release metadata and binary
// downloads. A configured certificate authority is appended to the system
// pool, matching what the engine itself is told via --ca-certificate.
func NewHTTPClient() *http.Client {
	c := config.CurrentConfig()
	logger := c.Logger().With().Str("method", "NewHTTPClient").Logger()

	tr := http.DefaultTransport.(*http.Transport).Clone()
	if caPath := c.CertificateAuthority(); caPath != "" {
		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = x509.NewCertPool()
		}
		pem, err := os.ReadFile(caPath)
		if err != nil {
			logger.Warn().Err(err).Str("path", caPath).Msg("couldn't read certificate authority file")
		} else if !pool.AppendCertsFromPEM(pem) {
			logger.Warn().Str("path", caPath).Msg("certificate authority file contains no usable certificates")
		} else {
			tr.TLSClientConfig = &tls.Config{RootCAs: pool}
		}
	}

	return &http.Client{
		Transport: tr,
		Timeout:   10 * time.Minute,
	}
}
