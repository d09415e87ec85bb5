package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"tallerhub/internal/adapter/api"
	"tallerhub/internal/adapter/api/handler"
	apimiddleware "tallerhub/internal/adapter/api/middleware"
	"tallerhub/internal/adapter/api/router"
	"tallerhub/internal/adapter/repository"
	"tallerhub/internal/infrastructure/firebase"
	"tallerhub/internal/infrastructure/storage"
	"tallerhub/internal/usecase"
	"tallerhub/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption
	serviceAccountPath := ""

	// Service account JSON from the environment in production, file path
	// for local development
	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		serviceAccountPath = os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if serviceAccountPath == "" {
			serviceAccountPath = "./serviceAccount.json"
		}

		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}

		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opt = option.WithCredentialsFile(serviceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	fcmClient, err := firebaseApp.Messaging(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Cloud Messaging: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(
		ctx,
		cfg.StorageBucket,
		cfg.FirebaseProject,
		serviceAccountPath,
	)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	deviceTokenRepo := repository.NewFirestoreDeviceTokenRepository(firestoreClient)
	workOrderRepo := repository.NewFirestoreWorkOrderRepository(firestoreClient)
	appointmentRepo := repository.NewFirestoreAppointmentRepository(firestoreClient)
	fileMetadataRepo := repository.NewFirestoreFileMetadataRepository(firestoreClient)
	messageStream := repository.NewFirestoreMessageStream(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)
	messagingClient := firebase.NewMessagingClient(fcmClient)

	chatUseCase := usecase.NewChatUseCase(
		chatRepo,
		workOrderRepo,
		userRepo,
		time.Duration(cfg.ReadDebounceSec)*time.Second,
	)
	workOrderUseCase := usecase.NewWorkOrderUseCase(workOrderRepo, chatUseCase)
	appointmentUseCase := usecase.NewAppointmentUseCase(appointmentRepo)
	userUseCase := usecase.NewUserUseCase(userRepo, firebaseAuthClient)
	notificationUseCase := usecase.NewNotificationUseCase(deviceTokenRepo, messageStream, messagingClient)

	go notificationUseCase.Run(ctx)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)

	router.Setup(e, authMiddleware, router.Handlers{
		Chat:        handler.NewChatHandler(chatUseCase),
		DeviceToken: handler.NewDeviceTokenHandler(notificationUseCase),
		WorkOrder:   handler.NewWorkOrderHandler(workOrderUseCase),
		Appointment: handler.NewAppointmentHandler(appointmentUseCase),
		File:        handler.NewFileHandler(storageClient, fileMetadataRepo),
		User:        handler.NewUserHandler(userUseCase),
		Health:      handler.NewHealthHandler(),
	})

	log.Printf("Starting server on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
