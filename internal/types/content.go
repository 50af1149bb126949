package types

// ContentType is the closed set of recommendable entities. The engine only
// holds weak references into the owning subsystems.
type ContentType string

const (
	ContentTypeNotice     ContentType = "notice"
	ContentTypeStudyGroup ContentType = "study_group"
	ContentTypeResource   ContentType = "resource"
	ContentTypeMeeting    ContentType = "meeting"
	ContentTypeEvent      ContentType = "event"
)

var AllContentTypes = []ContentType{
	ContentTypeNotice,
	ContentTypeStudyGroup,
	ContentTypeResource,
	ContentTypeMeeting,
	ContentTypeEvent,
}

func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeNotice, ContentTypeStudyGroup, ContentTypeResource, ContentTypeMeeting, ContentTypeEvent:
		return true
	}
	return false
}

type InteractionType string

const (
	InteractionTypeView     InteractionType = "view"
	InteractionTypeLike     InteractionType = "like"
	InteractionTypeShare    InteractionType = "share"
	InteractionTypeJoin     InteractionType = "join"
	InteractionTypeBookmark InteractionType = "bookmark"
	InteractionTypeComment  InteractionType = "comment"
	InteractionTypeRate     InteractionType = "rate"
)

func (t InteractionType) Valid() bool {
	switch t {
	case InteractionTypeView, InteractionTypeLike, InteractionTypeShare, InteractionTypeJoin,
		InteractionTypeBookmark, InteractionTypeComment, InteractionTypeRate:
		return true
	}
	return false
}

type RecommendationType string

const (
	RecommendationTypeContentBased  RecommendationType = "content_based"
	RecommendationTypeCollaborative RecommendationType = "collaborative"
	RecommendationTypeML            RecommendationType = "ml"
	RecommendationTypePopular       RecommendationType = "popular"
	RecommendationTypeTrending      RecommendationType = "trending"
	RecommendationTypeHybrid        RecommendationType = "hybrid"
)

var AllRecommendationTypes = []RecommendationType{
	RecommendationTypeContentBased,
	RecommendationTypeCollaborative,
	RecommendationTypeML,
	RecommendationTypePopular,
	RecommendationTypeTrending,
	RecommendationTypeHybrid,
}

func (t RecommendationType) Valid() bool {
	switch t {
	case RecommendationTypeContentBased, RecommendationTypeCollaborative, RecommendationTypeML,
		RecommendationTypePopular, RecommendationTypeTrending, RecommendationTypeHybrid:
		return true
	}
	return false
}

type SimilarityType string

const (
	SimilarityTypeCosine    SimilarityType = "cosine"
	SimilarityTypeJaccard   SimilarityType = "jaccard"
	SimilarityTypePearson   SimilarityType = "pearson"
	SimilarityTypeEuclidean SimilarityType = "euclidean"
)

func (t SimilarityType) Valid() bool {
	switch t {
	case SimilarityTypeCosine, SimilarityTypeJaccard, SimilarityTypePearson, SimilarityTypeEuclidean:
		return true
	}
	return false
}
