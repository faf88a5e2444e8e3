package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/socio-irdl/socio/backend/internal/models"
	"github.com/socio-irdl/socio/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityCleaner removes activity rows whose recorded state is no longer
// true: the referenced post is gone, the like was reversed, or the row
// duplicates an earlier one for the same (post, action) pair. It runs
// synchronously after every like toggle and periodically over all users.
type ActivityCleaner struct {
	userRepository     repositories.UserRepository
	postRepository     repositories.PostRepository
	activityRepository repositories.ActivityRepository
}

// NewActivityCleaner creates a new ActivityCleaner
func NewActivityCleaner(
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	activityRepo repositories.ActivityRepository,
) *ActivityCleaner {
	return &ActivityCleaner{
		userRepository:     userRepo,
		postRepository:     postRepo,
		activityRepository: activityRepo,
	}
}

// CleanupUser prunes the stale activity rows of one user. The user's
// username is needed to test like membership on posts.
func (s *ActivityCleaner) CleanupUser(ctx context.Context, user *models.User) error {
	activities, err := s.activityRepository.GetActivitiesByUser(user.ID.Hex())
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(activities))
	for _, activity := range activities {
		key := activity.PostID + "/" + activity.ActionType
		if seen[key] {
			if err := s.activityRepository.DeleteActivityByID(activity.ID); err != nil {
				return err
			}
			continue
		}

		stale, err := s.isStale(ctx, user, activity)
		if err != nil {
			return err
		}
		if stale {
			if err := s.activityRepository.DeleteActivityByID(activity.ID); err != nil {
				return err
			}
			continue
		}
		seen[key] = true
	}
	return nil
}

func (s *ActivityCleaner) isStale(ctx context.Context, user *models.User, activity models.Activity) (bool, error) {
	postID, err := primitive.ObjectIDFromHex(activity.PostID)
	if err != nil {
		return true, nil
	}
	post, err := s.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		if err == repositories.ErrPostNotFound {
			return true, nil
		}
		return false, err
	}
	if activity.ActionType == models.ActionLike && !post.LikedBy(user.Username) {
		return true, nil
	}
	return false, nil
}

// CleanupAll sweeps every user. Used by the periodic job; per-user failures
// are logged and do not stop the sweep.
func (s *ActivityCleaner) CleanupAll(ctx context.Context) {
	users, err := s.userRepository.GetUsers(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Activity cleanup sweep could not list users.")
		return
	}
	for i := range users {
		if err := s.CleanupUser(ctx, &users[i]); err != nil {
			log.Error().Err(err).Str("username", users[i].Username).Msg("Activity cleanup failed for user.")
		}
	}
}
