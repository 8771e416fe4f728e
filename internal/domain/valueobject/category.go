package valueobject

import "github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"

type Category string

const (
	CategoryWebDevelopment    Category = "web-development"
	CategoryMobileDevelopment Category = "mobile-development"
	CategoryDesign            Category = "design"
	CategoryWriting           Category = "writing"
	CategoryMarketing         Category = "marketing"
	CategoryDataScience       Category = "data-science"
	CategoryOther             Category = "other"
)

// Categories перечисляет допустимые категории в порядке отображения.
var Categories = []Category{
	CategoryWebDevelopment,
	CategoryMobileDevelopment,
	CategoryDesign,
	CategoryWriting,
	CategoryMarketing,
	CategoryDataScience,
	CategoryOther,
}

func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func NewCategory(category string) (Category, error) {
	c := Category(category)
	if !c.IsValid() {
		return "", apperror.Validation("некорректная категория")
	}
	return c, nil
}

type NotificationType string

const (
	NotificationNewBid      NotificationType = "new-bid"
	NotificationBidAccepted NotificationType = "bid-accepted"
	NotificationBidRejected NotificationType = "bid-rejected"
	NotificationGigHired    NotificationType = "gig-hired"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationNewBid, NotificationBidAccepted, NotificationBidRejected, NotificationGigHired:
		return true
	}
	return false
}
