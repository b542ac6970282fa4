package rpc

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ailutions/ailutions-site/internal/apperr"
	"github.com/ailutions/ailutions-site/internal/maturity"
	"github.com/ailutions/ailutions-site/internal/readiness"
	"github.com/ailutions/ailutions-site/internal/roi"
	"github.com/ailutions/ailutions-site/internal/submissions"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

type AssessmentsServer interface {
	AnalyzeReadiness(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ScoreMaturity(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ProjectROI(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSurvey(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// Handler implements AssessmentsServer on top of the calculator packages.
// Log may be nil, in which case nothing is recorded.
type Handler struct {
	survey maturity.Survey
	log    submissions.Log
}

func NewHandler(survey maturity.Survey, log submissions.Log) *Handler {
	return &Handler{survey: survey, log: log}
}

// NewServer builds a grpc.Server with the standard interceptor chain and the
// assessments service registered.
func NewServer(h AssessmentsServer, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			RecoveryUnaryInterceptor(),
			LoggingUnaryInterceptor(),
			ErrorUnaryInterceptor(),
		),
	}, opts...)
	srv := grpc.NewServer(opts...)
	RegisterAssessmentsServer(srv, h)
	return srv
}

func RegisterAssessmentsServer(server grpc.ServiceRegistrar, handler AssessmentsServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*AssessmentsServer)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "AnalyzeReadiness", Handler: analyzeReadinessHandler},
			{MethodName: "ScoreMaturity", Handler: scoreMaturityHandler},
			{MethodName: "ProjectROI", Handler: projectROIHandler},
			{MethodName: "GetSurvey", Handler: getSurveyHandler},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "ailutions/v1/assessments.proto",
	}, handler)
}

type readinessRequest struct {
	CompanyName string           `json:"companyName"`
	Tasks       []readiness.Task `json:"tasks"`
}

func (h *Handler) AnalyzeReadiness(ctx context.Context, request *structpb.Struct) (*structpb.Struct, error) {
	req, err := decodeStruct[readinessRequest](request)
	if err != nil {
		return nil, err
	}
	if len(req.Tasks) > readiness.MaxTasks {
		return nil, apperr.InvalidArgument(readiness.ErrTooManyTasks.Error(), readiness.ErrTooManyTasks)
	}
	res, ok := readiness.Analyze(req.Tasks)
	if !ok {
		return toStruct(map[string]any{"result": nil})
	}
	h.record(ctx, submissions.KindReadiness, map[string]any{"companyName": req.CompanyName, "result": res})
	return toStruct(map[string]any{"result": res})
}

type maturityRequest struct {
	CompanyName string           `json:"companyName"`
	Answers     maturity.Answers `json:"answers"`
}

func (h *Handler) ScoreMaturity(ctx context.Context, request *structpb.Struct) (*structpb.Struct, error) {
	req, err := decodeStruct[maturityRequest](request)
	if err != nil {
		return nil, err
	}
	res, err := maturity.Score(req.Answers, h.survey)
	switch {
	case errors.Is(err, maturity.ErrIncompleteSurvey):
		return nil, apperr.FailedPrecondition(err.Error(), err)
	case err != nil:
		return nil, apperr.InvalidArgument(err.Error(), err)
	}
	h.record(ctx, submissions.KindMaturity, map[string]any{
		"companyName": req.CompanyName,
		"answers":     req.Answers,
		"result":      res,
	})
	return toStruct(res)
}

type roiRequest struct {
	roi.Inputs
	CompanyName string `json:"companyName"`
}

func (h *Handler) ProjectROI(ctx context.Context, request *structpb.Struct) (*structpb.Struct, error) {
	req, err := decodeStruct[roiRequest](request)
	if err != nil {
		return nil, err
	}
	res, err := roi.Project(req.Inputs)
	if err != nil {
		return nil, err
	}
	h.record(ctx, submissions.KindROI, map[string]any{
		"companyName": req.CompanyName,
		"inputs":      req.Inputs,
		"result":      res,
	})
	return toStruct(map[string]any{"result": res, "display": res.Display()})
}

func (h *Handler) GetSurvey(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(h.survey)
}

func (h *Handler) record(ctx context.Context, kind submissions.Kind, payload any) {
	if h.log == nil {
		return
	}
	if _, err := h.log.Append(ctx, kind, payload); err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Msg("record submission")
	}
}

func toStruct(value any) (*structpb.Struct, error) {
	serialized, err := json.Marshal(value)
	if err != nil {
		return nil, apperr.Internal("failed to encode response", err)
	}
	decoded := map[string]any{}
	if err := json.Unmarshal(serialized, &decoded); err != nil {
		return nil, apperr.Internal("failed to shape response object", err)
	}
	result, err := structpb.NewStruct(decoded)
	if err != nil {
		return nil, apperr.Internal("failed to convert response to protobuf struct", err)
	}
	return result, nil
}

func decodeStruct[T any](input *structpb.Struct) (T, error) {
	var out T
	serialized, err := json.Marshal(input.AsMap())
	if err != nil {
		return out, apperr.InvalidArgument("request payload could not be encoded", err)
	}
	if err := json.Unmarshal(serialized, &out); err != nil {
		return out, apperr.InvalidArgument("request payload shape is invalid", err)
	}
	return out, nil
}

func analyzeReadinessHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	request := new(structpb.Struct)
	if err := dec(request); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AssessmentsServer).AnalyzeReadiness(ctx, request)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodAnalyzeReadiness}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AssessmentsServer).AnalyzeReadiness(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, request, info, handler)
}

func scoreMaturityHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	request := new(structpb.Struct)
	if err := dec(request); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AssessmentsServer).ScoreMaturity(ctx, request)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodScoreMaturity}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AssessmentsServer).ScoreMaturity(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, request, info, handler)
}

func projectROIHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	request := new(structpb.Struct)
	if err := dec(request); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AssessmentsServer).ProjectROI(ctx, request)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodProjectROI}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AssessmentsServer).ProjectROI(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, request, info, handler)
}

func getSurveyHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	request := new(emptypb.Empty)
	if err := dec(request); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AssessmentsServer).GetSurvey(ctx, request)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetSurvey}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AssessmentsServer).GetSurvey(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, request, info, handler)
}
