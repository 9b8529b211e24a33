package main

import (
  "context"
  "fmt"
  "math/rand"
  "os"
  "time"

  "golang.org/x/sync/errgroup"

  "github.com/yungbote/crm-backend/internal/db"
  "github.com/yungbote/crm-backend/internal/logger"
  "github.com/yungbote/crm-backend/internal/repos"
  "github.com/yungbote/crm-backend/internal/services"
  "github.com/yungbote/crm-backend/internal/types"
)

// Demo-data seeder: 20 active customers that each own 1-4 opportunities,
// 5 inactive customers, then 10 extra opportunities spread over random
// existing customers.
func main() {
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err := postgresService.AutoMigrateAll(); err != nil {
    log.Error("Postgres auto migration failed", "error", err)
    os.Exit(1)
  }
  thePG := postgresService.DB()

  customerRepo := repos.NewCustomerRepo(thePG, log)
  opportunityRepo := repos.NewSalesOpportunityRepo(thePG, log)
  customerService := services.NewCustomerService(thePG, log, customerRepo, opportunityRepo)
  opportunityService := services.NewOpportunityService(thePG, log, opportunityRepo, customerRepo)

  ctx := context.Background()

  var group errgroup.Group
  group.SetLimit(4)

  customerIDs := make(chan string, 32)
  for i := 0; i < 20; i++ {
    group.Go(func() error {
      customer, err := customerService.Create(ctx, nil, randomCustomerInput(types.CustomerStatusActive))
      if err != nil {
        return fmt.Errorf("seed customer: %w", err)
      }
      for n := 1 + rand.Intn(4); n > 0; n-- {
        if _, err := opportunityService.Create(ctx, nil, randomOpportunityInput(customer.ID.String())); err != nil {
          return fmt.Errorf("seed opportunity: %w", err)
        }
      }
      customerIDs <- customer.ID.String()
      return nil
    })
  }
  for i := 0; i < 5; i++ {
    group.Go(func() error {
      if _, err := customerService.Create(ctx, nil, randomCustomerInput(types.CustomerStatusInactive)); err != nil {
        return fmt.Errorf("seed inactive customer: %w", err)
      }
      return nil
    })
  }
  if err := group.Wait(); err != nil {
    log.Error("Seeding failed", "error", err)
    os.Exit(1)
  }
  close(customerIDs)

  owners := make([]string, 0, 20)
  for id := range customerIDs {
    owners = append(owners, id)
  }
  for i := 0; i < 10; i++ {
    owner := owners[rand.Intn(len(owners))]
    if _, err := opportunityService.Create(ctx, nil, randomOpportunityInput(owner)); err != nil {
      log.Error("Seeding failed", "error", err)
      os.Exit(1)
    }
  }

  log.Info("Seeding complete", "customers", 25, "extra_opportunities", 10)
}

var firstNames = []string{"Ava", "Noah", "Mia", "Liam", "Zoe", "Ethan", "Ruby", "Owen", "Ivy", "Leo"}
var lastNames = []string{"Hartman", "Okafor", "Lindqvist", "Moreau", "Tanaka", "Petrov", "Alvarez", "Keller", "Nowak", "Singh"}
var companies = []string{"Acme Corp", "Globex", "Initech", "Umbrella Labs", "Stark Industries", "Wayne Enterprises", "Hooli", "Vandelay Industries"}
var streets = []string{"Maple Ave", "Oak St", "Cedar Blvd", "Elm Dr", "Birch Ln"}
var dealAdjectives = []string{"Annual", "Enterprise", "Pilot", "Renewal", "Expansion", "Multi-year"}
var dealNouns = []string{"License", "Subscription", "Rollout", "Contract", "Upgrade", "Integration"}

func randomCustomerInput(status types.CustomerStatus) services.CustomerInput {
  first := firstNames[rand.Intn(len(firstNames))]
  last := lastNames[rand.Intn(len(lastNames))]
  return services.CustomerInput{
    Name:    fmt.Sprintf("%s %s", first, last),
    Email:   fmt.Sprintf("%s.%s%d@example.com", first, last, rand.Intn(10000)),
    Phone:   fmt.Sprintf("+1-555-%04d", rand.Intn(10000)),
    Company: companies[rand.Intn(len(companies))],
    Address: fmt.Sprintf("%d %s", 1+rand.Intn(999), streets[rand.Intn(len(streets))]),
    Notes:   "Seeded record.",
    Status:  string(status),
  }
}

// randomOpportunityInput mirrors production data: probability tracks the
// stage, and only closed deals carry an actual close date.
func randomOpportunityInput(customerID string) services.OpportunityInput {
  stages := types.Stages()
  stage := stages[rand.Intn(len(stages))]

  var probability int
  switch stage {
  case types.StageLead:
    probability = 10 + rand.Intn(16)
  case types.StageQualified:
    probability = 25 + rand.Intn(26)
  case types.StageProposal:
    probability = 50 + rand.Intn(26)
  case types.StageNegotiation:
    probability = 75 + rand.Intn(16)
  case types.StageClosedWon:
    probability = 100
  case types.StageClosedLost:
    probability = 0
  }

  value := 1000 + rand.Float64()*99000
  value = float64(int(value*100)) / 100

  input := services.OpportunityInput{
    CustomerID:        customerID,
    Title:             fmt.Sprintf("%s %s", dealAdjectives[rand.Intn(len(dealAdjectives))], dealNouns[rand.Intn(len(dealNouns))]),
    Description:       "Seeded opportunity.",
    Value:             &value,
    Stage:             string(stage),
    Probability:       &probability,
    ExpectedCloseDate: time.Now().AddDate(0, rand.Intn(7), rand.Intn(28)).Format("2006-01-02"),
  }
  if stage.Terminal() {
    input.ActualCloseDate = time.Now().AddDate(0, -rand.Intn(4), -rand.Intn(28)).Format("2006-01-02")
  }
  return input
}
