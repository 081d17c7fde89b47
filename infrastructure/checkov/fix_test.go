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

package checkov

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wenzdey/checkov-vscode/domain/scan"
)

func fixableIssue() scan.Issue {
	return scan.Issue{
		ID: "CKV_AWS_18",
		FixedDefinition: `resource "aws_s3_bucket" "data" {
  bucket = "data"
  logging {}
}`,
		CodeBlock: []scan.CodeLine{
			{Number: 1, Text: `resource "aws_s3_bucket" "data" {`},
			{Number: 2, Text: `  bucket = "data"`},
			{Number: 3, Text: `}`},
		},
	}
}

func Test_SynthesizeFix_ReplacesCodeBlock(t *testing.T) {
	document := `resource "aws_s3_bucket" "data" {
  bucket = "data"
}`

	edit := SynthesizeFix(fixableIssue(), document)

	require.NotNil(t, edit)
	assert.Equal(t, 0, edit.Range.Start.Line)
	assert.Equal(t, 0, edit.Range.Start.Character)
	assert.Equal(t, 2, edit.Range.End.Line)
	assert.Equal(t, 1, edit.Range.End.Character)
	assert.Contains(t, edit.NewText, "logging {}")
}

func Test_SynthesizeFix_WithheldWhenBlockDrifted(t *testing.T) {
	// line 2 was edited after the scan, the anchor no longer matches
	document := `resource "aws_s3_bucket" "data" {
  bucket = "renamed"
}`

	edit := SynthesizeFix(fixableIssue(), document)

	assert.Nil(t, edit)
}

func Test_SynthesizeFix_WithheldWhenBlockOutOfBounds(t *testing.T) {
	edit := SynthesizeFix(fixableIssue(), `resource "aws_s3_bucket" "data" {`)

	assert.Nil(t, edit)
}

func Test_SynthesizeFix_NoFixWithoutFixedDefinition(t *testing.T) {
	issue := fixableIssue()
	issue.FixedDefinition = ""

	assert.Nil(t, SynthesizeFix(issue, "anything"))
}

func Test_SynthesizeFix_WindowsLineEndings(t *testing.T) {
	document := "resource \"aws_s3_bucket\" \"data\" {\r\n  bucket = \"data\"\r\n}"

	edit := SynthesizeFix(fixableIssue(), document)

	require.NotNil(t, edit)
	assert.Equal(t, 2, edit.Range.End.Line)
}
