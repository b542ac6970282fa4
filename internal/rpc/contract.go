// Package rpc exposes the assessment calculators over gRPC. Payloads are
// google.protobuf.Struct values shaped like the JSON API bodies, so no
// generated stubs are needed on either side.
package rpc

const ServiceName = "ailutions.v1.Assessments"

const (
	MethodAnalyzeReadiness = "/" + ServiceName + "/AnalyzeReadiness"
	MethodScoreMaturity    = "/" + ServiceName + "/ScoreMaturity"
	MethodProjectROI       = "/" + ServiceName + "/ProjectROI"
	MethodGetSurvey        = "/" + ServiceName + "/GetSurvey"
)
